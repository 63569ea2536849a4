package controller

import (
	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// ListBadges godoc
// @Summary 徽章目录
// @Description 返回平台全部可获得的徽章
// @Tags 徽章
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Badge} "成功"
// @Router /api/badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	util.Success(ctx, c.BadgeService.List())
}
