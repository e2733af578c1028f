package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者のユーザー操作
type AdminUserHandler struct {
	authUC *usecase.AuthUsecase
}

func NewAdminUserHandler(authUC *usecase.AuthUsecase) *AdminUserHandler {
	return &AdminUserHandler{authUC: authUC}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin/users")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/:id/force-logout", h.forceLogout)
}

// token_versionを+1して対象ユーザーの全セッションを切る
func (h *AdminUserHandler) forceLogout(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.authUC.ForceLogout(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "force logged out"})
}
