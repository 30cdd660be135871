package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/config"
)

// WebServer wraps echo with the api route-registration surface the handler
// packages use.
type WebServer struct {
	root *echo.Echo
	cfg  *config.AppConfig
}

func New(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	return &WebServer{root: e, cfg: cfg}
}

func (ws *WebServer) ApiGET(path string, h echo.HandlerFunc) {
	ws.root.GET(path, h)
}

func (ws *WebServer) ApiPOST(path string, h echo.HandlerFunc) {
	ws.root.POST(path, h)
}

func (ws *WebServer) ApiPUT(path string, h echo.HandlerFunc) {
	ws.root.PUT(path, h)
}

func (ws *WebServer) ApiDELETE(path string, h echo.HandlerFunc) {
	ws.root.DELETE(path, h)
}

func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return ws.root.Start(addr)
}

func (ws *WebServer) Shutdown(ctx context.Context) error {
	return ws.root.Shutdown(ctx)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}
