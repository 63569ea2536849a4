package controller

import (
	"errors"

	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
	StorageService    *service.StorageService
}

func NewSubmissionController(submissionService *service.SubmissionService, storageService *service.StorageService) *SubmissionController {
	return &SubmissionController{
		SubmissionService: submissionService,
		StorageService:    storageService,
	}
}

// ListForTask godoc
// @Summary 任务的提交列表
// @Description 返回某个任务下的全部提交，按点赞数降序
// @Tags 提交
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/submissions [get]
func (c *SubmissionController) ListForTask(ctx *gin.Context) {
	subs, err := c.SubmissionService.ListForTask(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// swagger:model CreateSubmissionRequest
type CreateSubmissionRequest struct {
	RepoLink      string `json:"repoLink" binding:"required"`
	ScreenshotURL string `json:"screenshotUrl"`
	Description   string `json:"description"`
}

// Create godoc
// @Summary 提交任务方案
// @Description 为任务提交解决方案，提交者获得任务积分并累计解题数
// @Tags 提交
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "任务ID"
// @Param   body body CreateSubmissionRequest true "提交内容"
// @Success 201 {object} util.Response{data=model.Submission} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/submissions [post]
func (c *SubmissionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.SubmissionService.Create(ctx.Request.Context(), claims.Username, ctx.Param("id"), service.SubmissionInput{
		RepoLink:      req.RepoLink,
		ScreenshotURL: req.ScreenshotURL,
		Description:   req.Description,
	})
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, sub)
}

// Delete godoc
// @Summary 删除提交
// @Description 仅提交者本人或管理员可执行
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "提交ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/submissions/{id} [delete]
func (c *SubmissionController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.SubmissionService.Delete(ctx.Request.Context(), claims, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
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

// Upvote godoc
// @Summary 给提交点赞
// @Description 每个用户对同一条提交只能点赞一次，重复点赞返回409
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "提交ID"
// @Success 200 {object} util.Response{data=model.Submission} "成功"
// @Failure 404 {object} util.Response "提交不存在"
// @Failure 409 {object} util.Response "已点过赞"
// @Router /api/submissions/{id}/upvote [post]
func (c *SubmissionController) Upvote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.SubmissionService.Upvote(ctx.Request.Context(), claims.Username, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyUpvoted):
			util.Conflict(ctx, "Already upvoted")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}

// UploadScreenshot godoc
// @Summary 上传提交截图
// @Description 上传方案截图并返回可公开访问的URL，随后在创建提交时引用
// @Tags 提交
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "截图文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或类型不支持"
// @Router /api/submissions/screenshot/upload [post]
func (c *SubmissionController) UploadScreenshot(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadScreenshot(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
