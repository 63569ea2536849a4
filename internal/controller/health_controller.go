package controller

import (
	"opsnexus_backend/internal/util"
	"opsnexus_backend/pkg/recordstore"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store        *recordstore.Store
	StoreBackend string
}

func NewHealthController(store *recordstore.Store, storeBackend string) *HealthController {
	return &HealthController{Store: store, StoreBackend: storeBackend}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": c.StoreBackend,
		},
	})
}
