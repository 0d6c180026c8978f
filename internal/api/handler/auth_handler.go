package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/jobboard/internal/api/dto"
	"github.com/martijn/jobboard/internal/api/middleware"
	"github.com/martijn/jobboard/internal/core/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Register handles POST /auth/register. Anyone may register; only an
// authenticated admin may register another admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.IsAdmin {
		identity, ok := middleware.GetIdentity(c)
		if !ok || !identity.IsAdmin {
			_ = c.Error(service.Unauthorized("Only admins can register new admins"))
			return
		}
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}
