// Auth HTTP handlers.
//
// This file exposes the sign-in endpoints:
//   - POST /auth/login   (e-mail + password → bearer token)
//   - GET  /auth/me      (identity behind the bearer token)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/feedback-dashboard/internal/http/middleware"
	"github.com/tbourn/feedback-dashboard/internal/services"
)

// LoginRequest is the JSON payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// MeResponse describes the signed-in user.
type MeResponse struct {
	Email string `json:"email" example:"admin@example.com"`
}

// Login godoc
// @ID          login
// @Summary     Sign in
// @Description Exchanges e-mail and password for a bearer token. Every credential failure
// @Description returns the same generic 401 message.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object} services.Session
// @Failure     400  {object} handlers.ErrorResponse "Malformed JSON"
// @Failure     401  {object} handlers.ErrorResponse "Invalid credentials"
// @Failure     429  {object} handlers.ErrorResponse "Too many attempts"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			middleware.LoggerFrom(c).Error().Err(err).Msg("login")
		}
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.ErrInvalidCredentials.Error())
		return
	}
	c.Header("Cache-Control", "no-store")
	ok(c, http.StatusOK, sess)
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Description Returns the e-mail the bearer token was issued for.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object} handlers.MeResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	ok(c, http.StatusOK, MeResponse{Email: middleware.UserID(c)})
}
