package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuel-quote-service/internal/app"
)

const msgProfileCompleted = "Profile completed successfully"

// AccountHandler serves registration, login and profile endpoints.
type AccountHandler struct {
	service *app.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service *app.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register handles POST /api/v1/auth/register.
//
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.CredentialsRequest true "Credentials"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: result.Message,
		Token:   result.Token,
	})
}

// Login handles POST /api/v1/auth/login.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.CredentialsRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:      result.Token,
		RedirectTo: result.RedirectTo,
	})
}

// CompleteProfile handles POST /api/v1/profile/complete.
//
// @Summary Complete the delivery profile
// @Tags profile
// @Accept json
// @Produce json
// @Param body body dto.ProfileRequest true "Profile"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/profile/complete [post]
func (h *AccountHandler) CompleteProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	username, err := resolveUsername(c, req.Username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.CompleteProfile(c.Request.Context(), username, req.Profile()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: msgProfileCompleted})
}

// GetProfile handles GET /api/v1/profile/:username.
//
// @Summary Get a completed profile
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/profile/{username} [get]
func (h *AccountHandler) GetProfile(c *gin.Context) {
	username, err := resolveUsername(c, c.Param("username"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(username, profile))
}

// UpdateProfile handles PUT /api/v1/profile.
// The response echoes the submitted fields.
//
// @Summary Update the delivery profile
// @Tags profile
// @Accept json
// @Produce json
// @Param body body dto.ProfileRequest true "Profile"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/profile [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	username, err := resolveUsername(c, req.Username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), app.ProfileUpdate{
		Username: username,
		Profile:  req.Profile(),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(updated.Username, &updated.Profile))
}

// RegisterAuthRoutes registers the unauthenticated credential routes.
func (h *AccountHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
}

// RegisterProfileRoutes registers the profile routes. Any middleware passed
// in, such as the token gate, applies to these routes only.
func (h *AccountHandler) RegisterProfileRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	profile := rg.Group("/profile", mw...)
	profile.POST("/complete", h.CompleteProfile)
	profile.GET("/:username", h.GetProfile)
	profile.PUT("", h.UpdateProfile)
}
