package controller

import (
	"errors"

	"opsnexus_backend/internal/service"
	"opsnexus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Description 更新当前用户资料。改用户名会同步改写历史任务、提交、评论上的署名并重新签发令牌
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已被占用"
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.UserService.UpdateProfile(ctx.Request.Context(), claims.UserID, service.ProfileUpdate{
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Location:  req.Location,
		Website:   req.Website,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "Username already taken")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, gin.H{
		"user":  user.Sanitized(),
		"token": token,
	})
}

// GetPublicProfile godoc
// @Summary 查看用户公开主页
// @Description 按用户名返回公开资料和该用户的全部提交
// @Tags 用户
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=service.PublicProfile} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{username} [get]
func (c *UserController) GetPublicProfile(ctx *gin.Context) {
	profile, err := c.UserService.GetProfile(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// Leaderboard godoc
// @Summary 积分排行榜
// @Description 按总积分降序返回所有用户
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/leaderboard [get]
func (c *UserController) Leaderboard(ctx *gin.Context) {
	users, err := c.UserService.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
