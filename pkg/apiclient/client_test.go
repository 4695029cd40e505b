package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

func TestDo_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRID = r.Header.Get(HeaderRequestID)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"Physics"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("T"))
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/study-rooms/r1", nil, nil, &out))

	assert.Equal(t, "Bearer T", gotAuth)
	assert.NotEmpty(t, gotRID)
	assert.Equal(t, "Physics", out.Name)
}

func TestDo_NoTokenSendsUnauthenticated(t *testing.T) {
	t.Parallel()

	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	require.NoError(t, c.Do(context.Background(), http.MethodPost, "/api/users/register", nil, map[string]string{"a": "b"}, nil))
	assert.False(t, sawAuth)
}

func TestDo_StatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{name: "json message", body: `{"message":"room is full"}`, code: http.StatusConflict, message: "room is full"},
		{name: "json error", body: `{"error":"bad input"}`, code: http.StatusBadRequest, message: "bad input"},
		{name: "json string", body: `"Username already exists"`, code: http.StatusConflict, message: "Username already exists"},
		{name: "plain text", body: "nope", code: http.StatusUnauthorized, message: "nope"},
		{name: "html", body: "<html>gateway</html>", code: http.StatusBadGateway, message: ""},
		{name: "empty", body: "", code: http.StatusNotFound, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := New(srv.URL, nil).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.StatusCode)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.code, StatusCode(err))
			assert.False(t, IsNetwork(err))
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, nil).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestDo_DoesNotRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(srv.URL, staticTokens("expired")).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, 1, calls)
}

func TestUpload_Multipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		_, _ = io.WriteString(w, `{"imageUrl":"https://cdn/cover.png"}`)
	}))
	defer srv.Close()

	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	c := New(srv.URL, staticTokens("T"))
	require.NoError(t, c.Upload(context.Background(), "/api/files/upload/room-image", "file", "cover.png", strings.NewReader("PNGDATA"), &out))
	assert.Equal(t, "https://cdn/cover.png", out.ImageURL)
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := New("http://localhost:8080/", nil)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, "http://localhost:8080/a?k=v", c.url("/a", Query{}.Add("k", "v")))
}
