package api

import "time"

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	ProfilePicURL string `json:"profilepicurl,omitempty"`
	Bio           string `json:"bio,omitempty"`
}

type LoginResponse struct {
	ID           string `json:"id"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name,omitempty"`
	ProfilePicURL string `json:"profilepicurl,omitempty"`
	Bio           string `json:"bio,omitempty"`
}

type Room struct {
	RoomID          string   `json:"roomId"`
	Name            string   `json:"name"`
	Topic           string   `json:"topic"`
	Category        string   `json:"category"`
	Description     string   `json:"description,omitempty"`
	MaxParticipants int      `json:"maxParticipants"`
	IsPublic        bool     `json:"isPublic"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Participants    []string `json:"participants"`
	CreatorID       string   `json:"creatorId"`
}

type CreateRoomRequest struct {
	Name            string `json:"name"`
	Topic           string `json:"topic"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	MaxParticipants int    `json:"maxParticipants"`
	IsPublic        bool   `json:"isPublic"`
	Password        string `json:"password,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	CreatorID       string `json:"creatorId,omitempty"`
}

type trackingRequest struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type StopResult struct {
	DurationSeconds int64 `json:"durationSeconds"`
}

func (r StopResult) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

type AnalyticsStats struct {
	TotalHours float64 `json:"totalHours"`
	AvgSession float64 `json:"avgSession"`
	Streak     int     `json:"streak"`
}

type DailyPoint struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type Analytics struct {
	Stats     AnalyticsStats `json:"stats"`
	DailyData []DailyPoint   `json:"dailyData"`
}

type UserAchievement struct {
	Key      string    `json:"key"`
	EarnedAt time.Time `json:"earnedAt,omitempty"`
}

type DashboardStats struct {
	Hours    float64 `json:"hours"`
	Subjects int     `json:"subjects"`
	Badges   int     `json:"badges"`
}
