package controller

import (
	"errors"

	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
	UserService  *service.UserService
}

func NewAdminController(adminService *service.AdminService, userService *service.UserService) *AdminController {
	return &AdminController{
		AdminService: adminService,
		UserService:  userService,
	}
}

// ListUsers godoc
// @Summary 用户列表
// @Description 返回全部注册用户（脱敏）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// DeleteUser godoc
// @Summary 删除用户
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	err := c.UserService.DeleteUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DumpDatabase godoc
// @Summary 数据库快照
// @Description 导出全部集合的当前内容，用户记录脱敏
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DatabaseDump} "成功"
// @Router /api/admin/database [get]
func (c *AdminController) DumpDatabase(ctx *gin.Context) {
	dump, err := c.AdminService.DumpDatabase(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dump)
}

// ResetDatabase godoc
// @Summary 重置数据库
// @Description 清空全部集合，下次读取时重新播种默认数据。不可恢复
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/database/reset [post]
func (c *AdminController) ResetDatabase(ctx *gin.Context) {
	if err := c.AdminService.ResetDatabase(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "database reset"})
}
