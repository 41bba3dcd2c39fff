package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	"github.com/coachhub/coachhub/internal/application/user/usecases"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

type GetUserExecutor interface {
	Execute(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type UpdateProfileExecutor interface {
	Execute(ctx context.Context, userID string, request dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type ListUsersExecutor interface {
	Execute(ctx context.Context, request dto.ListUsersRequest) (*dto.ListUsersResponse, error)
}

type ChangeRoleExecutor interface {
	Execute(ctx context.Context, cmd usecases.ChangeRoleCommand) (*dto.UserResponse, error)
}

type Handler struct {
	getUserUC       GetUserExecutor
	updateProfileUC UpdateProfileExecutor
	listUsersUC     ListUsersExecutor
	changeRoleUC    ChangeRoleExecutor
	logger          logger.Interface
}

func NewHandler(
	getUserUC GetUserExecutor,
	updateProfileUC UpdateProfileExecutor,
	listUsersUC ListUsersExecutor,
	changeRoleUC ChangeRoleExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		getUserUC:       getUserUC,
		updateProfileUC: updateProfileUC,
		listUsersUC:     listUsersUC,
		changeRoleUC:    changeRoleUC,
		logger:          logger,
	}
}

// GetMe returns the authenticated user
// @Summary Get current user
// @Tags Users
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	result, err := h.getUserUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateMe updates name, timezone and avatar
// @Summary Update current user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update profile", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updateProfileUC.Execute(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", result)
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.listUsersUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Users, result.Total, result.Page, result.PageSize)
}

// ChangeRole handles PATCH /admin/users/:id/role
func (h *Handler) ChangeRole(c *gin.Context) {
	targetID, err := utils.ParseIDParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	actorID, _ := utils.CurrentUserID(c)
	result, err := h.changeRoleUC.Execute(c.Request.Context(), usecases.ChangeRoleCommand{
		ActorID: actorID,
		UserID:  targetID,
		Role:    req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", result)
}
