package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/util"
)

const (
	qrMinSize     = 128
	qrMaxSize     = 1024
	qrDefaultSize = 512
)

// QRHandler renders a PNG QR code pointing at the public menu, for
// printing on tables and flyers.
type QRHandler struct {
	DefaultURL string
}

func (h *QRHandler) GetQRCode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "qrcode.get")

	target := c.QueryParam("url")
	if target == "" {
		target = h.DefaultURL
	}

	size := util.ParseIntDefault(c.QueryParam("size"), qrDefaultSize)
	if size < qrMinSize {
		size = qrMinSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		l.Error("qrcode_failed", "url", target, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot generate qr code")
	}

	l.Info("qrcode_success", "url", target, "size", size)
	return c.Blob(http.StatusOK, "image/png", png)
}
