package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/mindmates/pkg/apiclient"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

func TestMessage(t *testing.T) {
	status := func(code int, msg string) error {
		return fmt.Errorf("wrapped: %w", &apiclient.StatusError{Method: "GET", Path: "/x", StatusCode: code, Message: msg})
	}

	tests := []struct {
		name string
		op   Op
		err  error
		want string
	}{
		{name: "nil", op: OpLogin, err: nil, want: ""},
		{name: "no session", op: OpJoinRoom, err: fmt.Errorf("cannot join room: %w", session.ErrNoToken), want: "You are not signed in. Please log in."},
		{name: "network", op: OpListRooms, err: &apiclient.NetworkError{Method: "GET", Path: "/x", Err: errors.New("refused")}, want: "Network error. Please check your connection."},
		{name: "login 401", op: OpLogin, err: status(http.StatusUnauthorized, "nope"), want: "Incorrect username or password."},
		{name: "login 409", op: OpLogin, err: status(http.StatusConflict, ""), want: "Account not activated. Please verify your email."},
		{name: "register 409", op: OpRegister, err: status(http.StatusConflict, "dup"), want: "Username or Email already exists. Please try different ones."},
		{name: "404 default", op: OpGetRoom, err: status(http.StatusNotFound, ""), want: "Not found."},
		{name: "404 server text", op: OpGetRoom, err: status(http.StatusNotFound, "Room r1 does not exist"), want: "Room r1 does not exist"},
		{name: "400 default", op: OpCreateRoom, err: status(http.StatusBadRequest, ""), want: "Invalid input. Please check the form and try again."},
		{name: "server message", op: OpJoinRoom, err: status(http.StatusConflict, "Room is full"), want: "Room is full"},
		{name: "generic", op: OpAnalytics, err: status(http.StatusInternalServerError, ""), want: "An error occurred while trying to load analytics."},
		{name: "upload", op: OpCreateRoom, err: fmt.Errorf("%w: %w", ErrImageUpload, status(http.StatusInternalServerError, "disk full")), want: "Could not upload the room image: disk full"},
		{name: "validation", op: OpCreateRoom, err: fmt.Errorf("%w: topic is required", ErrInvalidRoom), want: "invalid room: topic is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.op, tt.err))
		})
	}
}
