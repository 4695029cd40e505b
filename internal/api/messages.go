package api

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/mindmates/pkg/apiclient"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

// Op names the user action a failure happened in.
type Op string

const (
	OpLogin        Op = "login"
	OpRegister     Op = "register"
	OpListRooms    Op = "list rooms"
	OpSearchRooms  Op = "search rooms"
	OpGetRoom      Op = "load room"
	OpCreateRoom   Op = "create room"
	OpJoinRoom     Op = "join room"
	OpStartStudy   Op = "start studying"
	OpStopStudy    Op = "stop studying"
	OpAnalytics    Op = "load analytics"
	OpAchievements Op = "load achievements"
	OpDashboard    Op = "load dashboard"
)

// Message turns err into the text shown to the user for op.
func Message(op Op, err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, session.ErrNoToken):
		return "You are not signed in. Please log in."
	case errors.Is(err, session.ErrTokenExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, session.ErrMalformedToken):
		return "Your session is invalid. Please log in again."
	case errors.Is(err, ErrInvalidRoom), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidUser):
		return err.Error()
	case apiclient.IsNetwork(err):
		return "Network error. Please check your connection."
	}

	var se *apiclient.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, ErrImageUpload) {
			return "Could not upload the room image."
		}
		return generic(op)
	}

	switch {
	case op == OpLogin && se.StatusCode == http.StatusUnauthorized:
		return "Incorrect username or password."
	case op == OpLogin && se.StatusCode == http.StatusConflict:
		return "Account not activated. Please verify your email."
	case op == OpRegister && se.StatusCode == http.StatusConflict:
		return "Username or Email already exists. Please try different ones."
	case op == OpJoinRoom && se.StatusCode == http.StatusUnauthorized:
		return "Incorrect room password."
	case se.StatusCode == http.StatusNotFound:
		if se.Message != "" {
			return se.Message
		}
		return "Not found."
	case se.StatusCode == http.StatusBadRequest && se.Message == "":
		return "Invalid input. Please check the form and try again."
	case errors.Is(err, ErrImageUpload):
		if se.Message != "" {
			return "Could not upload the room image: " + se.Message
		}
		return "Could not upload the room image."
	}

	if se.Message != "" {
		return se.Message
	}
	return generic(op)
}

func generic(op Op) string {
	return "An error occurred while trying to " + string(op) + "."
}
