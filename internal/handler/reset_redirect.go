package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ResetRedirectHandler serves the web landing page that email
// clients can actually link to. It immediately forwards the browser
// to the app deep link carrying the reset token, with a manual
// button as fallback for clients that block the automatic redirect.
type ResetRedirectHandler struct {
	AppScheme string
}

func NewResetRedirectHandler(appScheme string) *ResetRedirectHandler {
	return &ResetRedirectHandler{AppScheme: appScheme}
}

// Redirect handles GET /reset?token=...
func (h *ResetRedirectHandler) Redirect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.HTML(http.StatusBadRequest, resetErrorPage)
	}
	deepLink := fmt.Sprintf("%s://reset-password?token=%s", h.AppScheme, token)
	return c.HTML(http.StatusOK, fmt.Sprintf(resetRedirectPage, deepLink, deepLink, token))
}

const resetErrorPage = `<html>
<head>
<title>Invalid Reset Link</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: -apple-system, Arial, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: linear-gradient(135deg, #F5E8C7 0%, #D9B53E 100%); }
.container { background: white; padding: 2rem; border-radius: 10px; text-align: center; max-width: 400px; }
.error { color: #e74c3c; }
</style>
</head>
<body>
<div class="container">
<h1>Invalid Reset Link</h1>
<p class="error">This password reset link is invalid or incomplete.</p>
<p>Please request a new password reset from the app.</p>
</div>
</body>
</html>`

const resetRedirectPage = `<html>
<head>
<title>Reset Your Password - Luca App</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="0; url=%s">
<style>
body { font-family: -apple-system, Arial, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: linear-gradient(135deg, #F5E8C7 0%%, #D9B53E 100%%); padding: 20px; }
.container { background: white; padding: 2rem; border-radius: 10px; text-align: center; max-width: 400px; width: 100%%; }
.button { display: inline-block; padding: 12px 30px; background: #D9B53E; color: white; text-decoration: none; border-radius: 5px; margin-top: 20px; font-weight: bold; }
.token { background: #f4f4f4; padding: 10px; border-radius: 5px; word-break: break-all; font-family: monospace; font-size: 12px; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
<h1>Reset Your Password</h1>
<p>Opening the Luca App…</p>
<a class="button" href="%s">Open App</a>
<p>If the app does not open, copy this token into the app manually:</p>
<div class="token">%s</div>
</div>
</body>
</html>`
