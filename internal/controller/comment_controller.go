package controller

import (
	"errors"

	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	CommentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{CommentService: commentService}
}

// ListForTask godoc
// @Summary 任务讨论串
// @Description 返回某个任务下的全部评论，按发表时间正序
// @Tags 评论
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=[]model.Comment} "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/comments [get]
func (c *CommentController) ListForTask(ctx *gin.Context) {
	comments, err := c.CommentService.ListForTask(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

// swagger:model CreateCommentRequest
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create godoc
// @Summary 发表评论
// @Tags 评论
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "任务ID"
// @Param   body body CreateCommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/comments [post]
func (c *CommentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.CommentService.Create(ctx.Request.Context(), claims.Username, ctx.Param("id"), req.Text)
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, comment)
}

// Delete godoc
// @Summary 删除评论
// @Description 仅评论者本人或管理员可执行
// @Tags 评论
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "评论ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "评论不存在"
// @Router /api/comments/{id} [delete]
func (c *CommentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CommentService.Delete(ctx.Request.Context(), claims, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCommentNotFound):
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
