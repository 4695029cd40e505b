package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Skotchmaster/mindmates/internal/logging"
	"github.com/Skotchmaster/mindmates/pkg/apiclient"
)

var (
	ErrImageUpload  = errors.New("room image upload failed")
	ErrRoomCreate   = errors.New("room creation failed")
	ErrInvalidRoom  = errors.New("invalid room")
	ErrRoomNotFound = errors.New("room not found")
)

const (
	DefaultMaxParticipants = 10
	MinParticipants        = 2
	MaxParticipants        = 100
)

// Categories lists the room categories the backend accepts.
var Categories = []string{
	"Physics",
	"History and Evolution",
	"Software Engineering",
	"Biology",
	"Databases and Data",
	"Geography",
	"Miscellaneous",
	"Language Studies",
	"Other",
}

type Rooms struct {
	do      Doer
	session Session
}

// SearchQuery is the room browser filter. Categories keep selection order.
type SearchQuery struct {
	Term       string
	Categories []string
}

func (q SearchQuery) Query() apiclient.Query {
	return apiclient.Query{}.
		Add("searchTerm", q.Term).
		AddAll("categories", q.Categories)
}

// Image is a file to upload ahead of room creation.
type Image struct {
	Filename string
	Body     io.Reader
}

func (r *Rooms) ListPublic(ctx context.Context) ([]Room, error) {
	const endpoint = "/api/study-rooms/get-public-rooms"
	l := logging.FromContext(ctx).With("svc", "rooms.list_public", "endpoint", endpoint)

	var rooms []Room
	if err := r.do.Do(ctx, http.MethodGet, endpoint, nil, nil, &rooms); err != nil {
		l.Error("fetch public rooms failed", "error", err)
		return nil, fmt.Errorf("list public rooms: %w", err)
	}
	return rooms, nil
}

func (r *Rooms) Search(ctx context.Context, q SearchQuery) ([]Room, error) {
	const endpoint = "/api/study-rooms/search"
	l := logging.FromContext(ctx).With("svc", "rooms.search", "endpoint", endpoint,
		"search_term", q.Term, "categories", q.Categories)

	var rooms []Room
	if err := r.do.Do(ctx, http.MethodGet, endpoint, q.Query(), nil, &rooms); err != nil {
		l.Error("search rooms failed", "error", err)
		return nil, fmt.Errorf("search rooms: %w", err)
	}
	return rooms, nil
}

func (r *Rooms) Get(ctx context.Context, roomID string) (*Room, error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, errors.New("get room: no room id provided")
	}
	endpoint := "/api/study-rooms/" + url.PathEscape(roomID)
	l := logging.FromContext(ctx).With("svc", "rooms.get", "endpoint", endpoint, "room_id", roomID)

	var room Room
	if err := r.do.Do(ctx, http.MethodGet, endpoint, nil, nil, &room); err != nil {
		l.Error("fetch room failed", "error", err)
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	if room.RoomID == "" && room.Name == "" {
		return nil, fmt.Errorf("get room %s: %w", roomID, ErrRoomNotFound)
	}
	return &room, nil
}

// UploadImage stores a room image and returns its public URL.
func (r *Rooms) UploadImage(ctx context.Context, img Image) (string, error) {
	const endpoint = "/api/files/upload/room-image"
	l := logging.FromContext(ctx).With("svc", "rooms.upload_image", "endpoint", endpoint, "filename", img.Filename)

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := r.do.Upload(ctx, endpoint, "file", img.Filename, img.Body, &resp); err != nil {
		l.Error("upload room image failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	if resp.ImageURL == "" {
		l.Error("upload response without image url")
		return "", fmt.Errorf("%w: response has no imageUrl", ErrImageUpload)
	}
	return resp.ImageURL, nil
}

// Create validates req, uploads img first when given, and only then creates
// the room with the uploaded URL. req is taken by value so a failed attempt
// never leaks the uploaded URL into the caller's next submission.
func (r *Rooms) Create(ctx context.Context, req CreateRoomRequest, img *Image) (*Room, error) {
	const endpoint = "/api/study-rooms/create"
	l := logging.FromContext(ctx).With("svc", "rooms.create", "endpoint", endpoint, "name", req.Name)

	if err := normalizeCreate(&req); err != nil {
		return nil, err
	}

	creator, err := currentUserID(ctx, r.session, "create room")
	if err != nil {
		return nil, err
	}
	req.CreatorID = creator

	if img != nil {
		u, err := r.UploadImage(ctx, *img)
		if err != nil {
			return nil, err
		}
		req.ImageURL = u
	}

	var room Room
	if err := r.do.Do(ctx, http.MethodPost, endpoint, nil, req, &room); err != nil {
		l.Error("create room failed", "error", err, "image_url", req.ImageURL)
		return nil, fmt.Errorf("%w: %w", ErrRoomCreate, err)
	}
	return &room, nil
}

func normalizeCreate(req *CreateRoomRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Topic = strings.TrimSpace(req.Topic)
	req.Category = strings.TrimSpace(req.Category)

	switch {
	case req.Name == "":
		return fmt.Errorf("%w: room name is required", ErrInvalidRoom)
	case req.Topic == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidRoom)
	case req.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidRoom)
	}

	if req.MaxParticipants == 0 {
		req.MaxParticipants = DefaultMaxParticipants
	}
	if req.MaxParticipants < MinParticipants || req.MaxParticipants > MaxParticipants {
		return fmt.Errorf("%w: max participants must be between %d and %d", ErrInvalidRoom, MinParticipants, MaxParticipants)
	}

	if req.IsPublic {
		req.Password = ""
	} else if req.Password == "" {
		return fmt.Errorf("%w: password is required for private rooms", ErrInvalidRoom)
	}

	// Set by Create; never trusted from the caller.
	req.ImageURL = ""
	req.CreatorID = ""
	return nil
}

func (r *Rooms) Join(ctx context.Context, roomID, password string) (*Room, error) {
	const endpoint = "/api/study-rooms/join-room"

	userID, err := currentUserID(ctx, r.session, "join room")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(roomID) == "" {
		return nil, errors.New("join room: no room id provided")
	}
	l := logging.FromContext(ctx).With("svc", "rooms.join", "endpoint", endpoint, "room_id", roomID, "user_id", userID)

	q := apiclient.Query{}.Add("roomId", roomID).Add("currentUserId", userID)
	if password != "" {
		q = q.Add("password", password)
	}

	var room Room
	if err := r.do.Do(ctx, http.MethodPost, endpoint, q, nil, &room); err != nil {
		l.Error("join room failed", "error", err)
		return nil, fmt.Errorf("join room %s: %w", roomID, err)
	}
	return &room, nil
}
