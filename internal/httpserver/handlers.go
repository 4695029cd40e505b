package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mindmates/internal/achievements"
	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/logging"
	"github.com/Skotchmaster/mindmates/internal/study"
	"github.com/Skotchmaster/mindmates/pkg/apiclient"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type Handlers struct {
	API     *api.API
	Tracker *study.Tracker
}

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{Status: statusOK, Data: data})
}

func fail(c echo.Context, op api.Op, err error) error {
	code := statusFor(err)
	msg := api.Message(op, err)
	switch {
	case errors.Is(err, study.ErrOtherRoom):
		msg = "You are studying in another room."
	case errors.Is(err, study.ErrAlreadyStudying), errors.Is(err, study.ErrNotStudying):
		msg = err.Error()
	}

	l := logging.FromContext(c.Request().Context()).With("handler", string(op))
	if code >= http.StatusInternalServerError {
		l.Error("request failed", "status", code, "error", err)
	} else {
		l.Warn("request failed", "status", code, "error", err)
	}
	return c.JSON(code, Response{Status: statusError, Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoToken),
		errors.Is(err, session.ErrTokenExpired),
		errors.Is(err, session.ErrMalformedToken):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrInvalidRoom), errors.Is(err, api.ErrInvalidRange), errors.Is(err, api.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, study.ErrAlreadyStudying), errors.Is(err, study.ErrNotStudying), errors.Is(err, study.ErrOtherRoom):
		return http.StatusConflict
	case apiclient.IsNetwork(err):
		return http.StatusBadGateway
	}
	if code := apiclient.StatusCode(err); code != 0 {
		return code
	}
	return http.StatusInternalServerError
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, Response{Status: statusError, Message: "Email or username and password are required."})
	}

	resp, err := h.API.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, api.OpLogin, err)
	}
	if resp.ID == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Login failed. Unexpected response from server."
		}
		return c.JSON(http.StatusUnauthorized, Response{Status: statusError, Message: msg})
	}
	return ok(c, http.StatusOK, map[string]string{"id": resp.ID, "redirect": "/dashboard"})
}

func (h *Handlers) Register(c echo.Context) error {
	var req api.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.API.Users.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, api.OpRegister, err)
	}
	return ok(c, http.StatusCreated, user)
}

func (h *Handlers) Logout(c echo.Context) error {
	if err := h.API.Users.Logout(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear session")
	}
	return ok(c, http.StatusOK, map[string]string{"redirect": LoginPath})
}

func (h *Handlers) Dashboard(c echo.Context) error {
	stats, err := h.API.Achievements.Stats(c.Request().Context())
	if err != nil {
		return fail(c, api.OpDashboard, err)
	}
	return ok(c, http.StatusOK, stats)
}

func (h *Handlers) Achievements(c echo.Context) error {
	list, err := h.API.Achievements.List(c.Request().Context())
	if err != nil {
		return fail(c, api.OpAchievements, err)
	}
	s := achievements.Summarize(api.EarnedKeys(list))
	return ok(c, http.StatusOK, map[string]any{
		"earned":  s.Earned,
		"locked":  s.Locked,
		"summary": s.String(),
	})
}

func (h *Handlers) Analytics(c echo.Context) error {
	out, err := h.API.Tracking.Analytics(c.Request().Context(), c.QueryParam("range"))
	if err != nil {
		return fail(c, api.OpAnalytics, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *Handlers) ListRooms(c echo.Context) error {
	ctx := c.Request().Context()
	term := c.QueryParam("searchTerm")
	cats := c.QueryParams()["categories"]

	if term == "" && len(cats) == 0 {
		rooms, err := h.API.Rooms.ListPublic(ctx)
		if err != nil {
			return fail(c, api.OpListRooms, err)
		}
		return ok(c, http.StatusOK, rooms)
	}

	rooms, err := h.API.Rooms.Search(ctx, api.SearchQuery{Term: term, Categories: cats})
	if err != nil {
		return fail(c, api.OpSearchRooms, err)
	}
	return ok(c, http.StatusOK, rooms)
}

func (h *Handlers) GetRoom(c echo.Context) error {
	room, err := h.API.Rooms.Get(c.Request().Context(), c.Param("roomId"))
	if err != nil {
		return fail(c, api.OpGetRoom, err)
	}
	return ok(c, http.StatusOK, room)
}

// CreateRoom accepts JSON, or a multipart form whose optional "image" file is
// uploaded before the room is created.
func (h *Handlers) CreateRoom(c echo.Context) error {
	ctx := c.Request().Context()

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var req api.CreateRoomRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		room, err := h.API.Rooms.Create(ctx, req, nil)
		if err != nil {
			return fail(c, api.OpCreateRoom, err)
		}
		return ok(c, http.StatusCreated, room)
	}

	req, err := createRoomFromForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Status: statusError, Message: err.Error()})
	}

	var img *api.Image
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read image")
		}
		defer f.Close()
		img = &api.Image{Filename: fh.Filename, Body: f}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	room, err := h.API.Rooms.Create(ctx, req, img)
	if err != nil {
		return fail(c, api.OpCreateRoom, err)
	}
	return ok(c, http.StatusCreated, room)
}

func createRoomFromForm(c echo.Context) (api.CreateRoomRequest, error) {
	req := api.CreateRoomRequest{
		Name:        c.FormValue("name"),
		Topic:       c.FormValue("topic"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Password:    c.FormValue("password"),
		IsPublic:    true,
	}
	if v := c.FormValue("maxParticipants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("maxParticipants must be a number")
		}
		req.MaxParticipants = n
	}
	if v := c.FormValue("isPublic"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("isPublic must be true or false")
		}
		req.IsPublic = b
	}
	return req, nil
}

type joinRequest struct {
	Password string `json:"password" form:"password"`
}

func (h *Handlers) JoinRoom(c echo.Context) error {
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	room, err := h.API.Rooms.Join(c.Request().Context(), c.Param("roomId"), req.Password)
	if err != nil {
		return fail(c, api.OpJoinRoom, err)
	}
	return ok(c, http.StatusOK, room)
}

func (h *Handlers) StartStudy(c echo.Context) error {
	roomID := c.Param("roomId")
	if err := h.Tracker.Start(c.Request().Context(), roomID); err != nil {
		return fail(c, api.OpStartStudy, err)
	}
	return ok(c, http.StatusOK, map[string]any{"roomId": roomID, "isStudying": true})
}

func (h *Handlers) StopStudy(c echo.Context) error {
	roomID := c.Param("roomId")
	d, err := h.Tracker.Stop(c.Request().Context(), roomID)
	if err != nil {
		return fail(c, api.OpStopStudy, err)
	}
	return ok(c, http.StatusOK, map[string]any{
		"roomId":          roomID,
		"isStudying":      false,
		"durationSeconds": int64(d.Seconds()),
	})
}
