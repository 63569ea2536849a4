package controller

import (
	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// swagger:model ChatRequest
type ChatRequest struct {
	Question string                `json:"question" binding:"required"`
	History  []service.ChatMessage `json:"history"`
}

// Ask godoc
// @Summary 向 OpsBot 提问
// @Description DevOps 学习助手。助手不可用时返回固定提示语而不是错误
// @Tags 助手
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "问题和历史对话"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/chat/ask [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer := c.ChatService.Ask(ctx.Request.Context(), req.Question, req.History)
	util.Success(ctx, gin.H{"answer": answer})
}
