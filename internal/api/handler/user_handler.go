package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/jobboard/internal/api/dto"
	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"github.com/martijn/jobboard/internal/core/service"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// CreateUser handles POST /users (admin only)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	password := req.Password
	var tempPassword string
	if password == "" {
		generated, err := service.GeneratePassword()
		if err != nil {
			_ = c.Error(service.Internal(err, "failed to generate password"))
			return
		}
		password = generated
		tempPassword = generated
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  password,
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

	c.JSON(http.StatusCreated, dto.UserCreateResponse{
		User:         toUserResponse(user),
		Token:        token,
		TempPassword: tempPassword,
	})
}

// ListUsers handles GET /users (admin only)
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter repository.UserFilter
	if v, ok := c.GetQuery("isAdmin"); ok {
		isAdmin, valid := parseBool(v)
		if !valid {
			_ = c.Error(service.BadRequest("isAdmin must be true or false"))
			return
		}
		filter.IsAdmin = &isAdmin
	}

	users, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := dto.UserListResponse{Users: make([]dto.UserResponse, len(users))}
	for i, user := range users {
		response.Users[i] = toUserResponse(user)
	}
	c.JSON(http.StatusOK, response)
}

// GetUser handles GET /users/:username
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: toUserResponse(user)})
}

// UpdateUser handles PATCH /users/:username
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	var fields []repository.UpdateField
	if req.FirstName != nil {
		fields = append(fields, repository.UpdateField{Name: "firstName", Value: *req.FirstName})
	}
	if req.LastName != nil {
		fields = append(fields, repository.UpdateField{Name: "lastName", Value: *req.LastName})
	}
	if req.Password != nil {
		fields = append(fields, repository.UpdateField{Name: "password", Value: *req.Password})
	}
	if req.Email != nil {
		fields = append(fields, repository.UpdateField{Name: "email", Value: *req.Email})
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("username"), fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: toUserResponse(user)})
}

// DeleteUser handles DELETE /users/:username
func (h *UserHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.userService.DeleteUser(c.Request.Context(), username); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.UserDeletedResponse{Deleted: username})
}

// ApplyForJob handles POST /users/:username/jobs/:id. The body is optional;
// {"state": "..."} picks a state other than "applied".
func (h *UserHandler) ApplyForJob(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			_ = c.Error(service.BadRequest("%s", describeBindError(err)))
			return
		}
	}

	app, err := h.userService.ApplyForJob(c.Request.Context(), c.Param("username"), jobID, domain.ApplicationState(req.State))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ApplyResponse{Applied: app.JobID, State: string(app.State)})
}

func toUserResponse(user *domain.User) dto.UserResponse {
	jobs := user.Jobs
	if jobs == nil {
		jobs = []int64{}
	}
	return dto.UserResponse{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Jobs:      jobs,
	}
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
