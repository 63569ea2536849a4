package repository

// 持久化 slot 名称。沿用历史命名，线上已有数据依赖这些键。
const (
	SlotUsers       = "opsnexus_registered_users"
	SlotTasks       = "opsnexus_tasks"
	SlotSubmissions = "opsnexus_submissions"
	SlotComments    = "opsnexus_comments"
	SlotUpvotes     = "opsnexus_upvoted_submissions"
)

// AllSlots 重置操作清空的全部 slot，下次读取时重新播种默认数据
var AllSlots = []string{
	SlotUsers,
	SlotTasks,
	SlotSubmissions,
	SlotComments,
	SlotUpvotes,
}
