package controller

import (
	"errors"

	"opsnexus_backend/internal/model"
	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// ListTasks godoc
// @Summary 任务列表
// @Description 返回全部任务，最新发布在前。支持按难度、分类、工具和关键词过滤
// @Tags 任务
// @Produce  json
// @Param   difficulty query string false "难度 Beginner/Intermediate/Advanced"
// @Param   category query string false "分类"
// @Param   tool query string false "工具名"
// @Param   search query string false "标题/描述关键词"
// @Success 200 {object} util.Response{data=[]model.Task} "成功"
// @Router /api/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	tasks, err := c.TaskService.List(ctx.Request.Context(), service.TaskFilter{
		Difficulty: ctx.Query("difficulty"),
		Category:   ctx.Query("category"),
		Tool:       ctx.Query("tool"),
		Search:     ctx.Query("search"),
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// GetTask godoc
// @Summary 任务详情
// @Tags 任务
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.Task} "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	task, err := c.TaskService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// swagger:model CreateTaskRequest
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Difficulty  string   `json:"difficulty" binding:"required"`
	Tools       []string `json:"tools"`
	Category    string   `json:"category"`
	Points      int      `json:"points"`
}

// CreateTask godoc
// @Summary 发布任务
// @Description 发布新的练习任务，作者为当前用户。未指定积分时按难度取默认值
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateTaskRequest true "任务内容"
// @Success 201 {object} util.Response{data=model.Task} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Create(ctx.Request.Context(), claims.Username, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  model.Difficulty(req.Difficulty),
		Tools:       req.Tools,
		Category:    req.Category,
		Points:      req.Points,
	})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, task)
}

// DeleteTask godoc
// @Summary 删除任务
// @Description 删除任务及其下的全部提交和评论，仅作者本人或管理员可执行
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.TaskService.Delete(ctx.Request.Context(), claims, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
