package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/study"
)

type Deps struct {
	API     *api.API
	Session TokenChecker
	Tracker *study.Tracker
	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

// New builds the dashboard server with its middleware stack and routes.
func New(d *Deps, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(logger))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	h := &Handlers{API: d.API, Tracker: d.Tracker}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, Response{Status: statusError, Message: err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, LoginPath) })
	e.POST("/login", h.Login)
	e.POST("/register", h.Register)
	e.POST("/logout", h.Logout)

	g := e.Group("", RequireSession(d.Session))
	g.GET("/dashboard", h.Dashboard)
	g.GET("/achievements", h.Achievements)
	g.GET("/analytics", h.Analytics)

	rooms := g.Group("/study-rooms")
	rooms.GET("", h.ListRooms)
	rooms.POST("", h.CreateRoom)
	rooms.GET("/:roomId", h.GetRoom)
	rooms.POST("/:roomId/join", h.JoinRoom)
	rooms.POST("/:roomId/study/start", h.StartStudy)
	rooms.POST("/:roomId/study/stop", h.StopStudy)
}
