// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lucaapp/account-service/internal/auth"
	"github.com/lucaapp/account-service/internal/handler"
	"github.com/lucaapp/account-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require
// authentication: the health check and the reset-link landing page
// email clients point browsers at.
func RegisterRoutes(e *echo.Echo, reset *handler.ResetRedirectHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/reset", reset.Redirect)
}

// RegisterAuth registers the authentication endpoints. Register,
// login and the password reset flow live under /v1/auth and need no
// existing session; logout accepts either a bearer header or an
// explicit token in the body.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/logout/token", a.LogoutWithToken)
	g.POST("/password/forgot", a.ForgotPassword)
	g.POST("/password/reset", a.ResetPassword)
}

// RegisterAccounts registers the protected account CRUD endpoints.
// Every route runs the session middleware first, so handlers can
// rely on an authenticated account id being present.
func RegisterAccounts(e *echo.Echo, h *handler.AccountHandler, sessions *auth.SessionManager) {
	g := e.Group("/v1")
	g.Use(middleware.RequireSession(sessions))

	g.GET("/accounts/me", h.Me)
	g.PUT("/accounts/me", h.UpdateMe)
	g.GET("/accounts/:id", h.GetByID)
	g.DELETE("/accounts/:id", h.Delete)
	g.GET("/admin/accounts", h.List)
}
