package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucaapp/account-service/internal/auth"
	"github.com/lucaapp/account-service/internal/model"
)

// AuthHandler exposes the register/login/logout and password reset
// endpoints on top of the auth service.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{Svc: svc} }

// ----- DTOs -----

type registerReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Password    string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenReq struct {
	Token string `json:"token"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type accountResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
}
type authResp struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Account accountResp `json:"account"`
}

// toAccountResp strips the stored secret from an account before it
// leaves the service.
func toAccountResp(a *model.Account) accountResp {
	return accountResp{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		DateOfBirth: a.DateOfBirth,
	}
}

// bearerToken extracts the raw token from an Authorization header,
// empty when absent or not a Bearer scheme.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// reqCtx bounds store and mail calls for one request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register: create account, issue session, 201 with token+account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateRegister(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Svc.Register(ctx, auth.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
		}
		c.Logger().Errorf("register failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Message: "Account created successfully",
		Token:   res.Token,
		Account: toAccountResp(res.Account),
	})
}

// Login: verify credentials under the rate limiter and return a
// fresh session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		var rl *auth.RateLimitedError
		switch {
		case errors.As(err, &rl):
			minutes := (rl.RetryAfterSeconds + 59) / 60 // round up
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error": fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s).", minutes),
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		default:
			c.Logger().Errorf("login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
	}

	return c.JSON(http.StatusOK, authResp{
		Message: "Login successful",
		Token:   res.Token,
		Account: toAccountResp(res.Account),
	})
}

// Logout revokes the bearer token from the Authorization header.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.Logout(ctx, token); err != nil {
		c.Logger().Errorf("logout failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// LogoutWithToken revokes a session token supplied in the body, for
// clients that prefer not to send an Authorization header.
func (h *AuthHandler) LogoutWithToken(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.Logout(ctx, strings.TrimSpace(req.Token)); err != nil {
		c.Logger().Errorf("logout failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// ForgotPassword returns the same success message whether or not
// the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		c.Logger().Errorf("forgot password failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send reset email"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If this email exists, a reset link has been sent.",
	})
}

// ResetPassword consumes a reset token. Invalid, used and expired
// tokens each get a distinct message.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Svc.ResetPassword(ctx, strings.TrimSpace(req.Token), req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Password reset successfully. Please log in with your new password.",
		})
	case errors.Is(err, auth.ErrInvalidResetToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid reset token"})
	case errors.Is(err, auth.ErrResetTokenUsed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Reset token has already been used"})
	case errors.Is(err, auth.ErrResetTokenExpired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Reset token has expired. Please request a new reset link."})
	default:
		c.Logger().Errorf("reset password failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
}
