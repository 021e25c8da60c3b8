package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaapp/account-service/internal/auth"
	"github.com/lucaapp/account-service/internal/repository"
)

// AccountHandler serves the account CRUD endpoints. All routes are
// behind the session middleware, which stores the authenticated
// account id in the request context.
type AccountHandler struct {
	Accounts *repository.AccountRepo
	Sessions *auth.SessionManager
}

func NewAccountHandler(accounts *repository.AccountRepo, sessions *auth.SessionManager) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Sessions: sessions}
}

type updateAccountReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// currentAccountID reads the id the session middleware stored.
func currentAccountID(c echo.Context) uint64 {
	id, _ := c.Get("account_id").(uint64)
	return id
}

// Me returns the authenticated account.
func (h *AccountHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, currentAccountID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	}
	if err != nil {
		c.Logger().Errorf("load account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, toAccountResp(a))
}

// UpdateMe changes name and/or phone; at least one is required.
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	var req updateAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" && req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Provide at least one field to update (name or phone)"})
	}
	if req.Name != "" {
		if msg := validateName(req.Name); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
	}
	if req.Phone != "" {
		if msg := validatePhone(req.Phone); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id := currentAccountID(c)
	if err := h.Accounts.UpdateProfile(ctx, id, req.Name, req.Phone); err != nil {
		c.Logger().Errorf("update account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update account failed"})
	}
	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("reload account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account updated successfully",
		"account": toAccountResp(a),
	})
}

// GetByID returns an account by id. Accounts may only view
// themselves.
func (h *AccountHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	if id != currentAccountID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only view your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	}
	if err != nil {
		c.Logger().Errorf("load account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, toAccountResp(a))
}

// Delete removes an account. Accounts may only delete themselves.
// Sessions are revoked first so no bearer token outlives the row.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	if id != currentAccountID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Accounts.GetByID(ctx, id); errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Account not found"})
	} else if err != nil {
		c.Logger().Errorf("load account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}

	if err := h.Sessions.RevokeAll(ctx, id); err != nil {
		c.Logger().Errorf("revoke sessions failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	if err := h.Accounts.Delete(ctx, id); err != nil {
		c.Logger().Errorf("delete account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted successfully"})
}

// List returns every account. Exposed under /v1/admin for
// debugging and support tooling.
func (h *AccountHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	accounts, err := h.Accounts.List(ctx)
	if err != nil {
		c.Logger().Errorf("list accounts failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list accounts failed"})
	}
	out := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResp(&accounts[i]))
	}
	return c.JSON(http.StatusOK, out)
}
