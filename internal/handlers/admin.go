package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/mykafka"
	"github.com/epiphanyresto/menu-backend/internal/service"
)

type AdminHandler struct {
	Admin    *service.AdminService
	Session  *service.SessionService
	Producer *mykafka.Producer
}

func (h *AdminHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if !h.Admin.VerifyAdminCredentials(ctx, req.Username, req.Password) {
		l.Warn("login_failed", "status", 401, "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, exp, err := h.Session.CreateAdminToken()
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session")
	}

	c.SetCookie(CreateCookie("accessToken", token, "/", exp))

	publish(c, h.Producer, "admin_events", req.Username, map[string]interface{}{
		"type":     "admin_logged_in",
		"username": req.Username,
	})
	l.Info("login_success", "username", req.Username)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"username":     req.Username,
	})
}

// GetCredentials confirms the configured username; the password field is
// always redacted.
func (h *AdminHandler) GetCredentials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_credentials")

	credentials, err := h.Admin.GetAdminCredentials(ctx)
	if err != nil {
		l.Error("get_credentials_failed", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, credentials)
}

func (h *AdminHandler) UpdateCredentials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_credentials")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_credentials_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Admin.UpdateAdminCredentials(ctx, req.Username, req.Password); err != nil {
		l.Error("update_credentials_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "admin_events", req.Username, map[string]interface{}{
		"type":     "admin_credentials_rotated",
		"username": req.Username,
	})
	l.Info("update_credentials_success", "username", req.Username)
	return c.NoContent(http.StatusNoContent)
}
