// Package achievements holds the static badge catalog and splits it into
// earned and locked badges for a user.
package achievements

import "fmt"

// Criteria is what a user must reach to earn a badge. A zero DayStreak means
// no streak is required.
type Criteria struct {
	Rooms      int `json:"rooms"`
	StudyHours int `json:"studyHours"`
	DayStreak  int `json:"dayStreak,omitempty"`
}

// Badge is one catalog entry. IconKey names the icon a client renders for it
// (award, star or trophy).
type Badge struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IconKey     string   `json:"iconKey"`
	Criteria    Criteria `json:"criteria"`
}

var catalog = []Badge{
	{
		Key:         "badge_knowledge_explorer",
		Title:       "Knowledge Explorer",
		Description: "Join 3 different subject rooms and spend 5 hours studying.",
		IconKey:     "award",
		Criteria:    Criteria{Rooms: 3, StudyHours: 5},
	},
	{
		Key:         "badge_speed_learner",
		Title:       "Speed Learner",
		Description: "Join 3 subject rooms, spend 10 hours studying, and study for 3 days in a row.",
		IconKey:     "star",
		Criteria:    Criteria{Rooms: 3, StudyHours: 10, DayStreak: 3},
	},
	{
		Key:         "badge_mastermind",
		Title:       "Mastermind",
		Description: "Join 5 subject rooms, spend 15 hours studying, and study for 3 days in a row.",
		IconKey:     "trophy",
		Criteria:    Criteria{Rooms: 5, StudyHours: 15, DayStreak: 3},
	},
	{
		Key:         "badge_streak_scholar",
		Title:       "Streak Scholar",
		Description: "Join 5 subject rooms, spend 20 hours studying, and study for 5 days in a row.",
		IconKey:     "award",
		Criteria:    Criteria{Rooms: 5, StudyHours: 20, DayStreak: 5},
	},
	{
		Key:         "badge_guiding_star",
		Title:       "Guiding Star",
		Description: "Join 10 subject rooms, spend 25 hours studying, and study for 5 days in a row.",
		IconKey:     "trophy",
		Criteria:    Criteria{Rooms: 10, StudyHours: 25, DayStreak: 5},
	},
}

// Catalog returns a copy of every known badge in display order.
func Catalog() []Badge {
	return append([]Badge(nil), catalog...)
}

// Lookup finds a badge by key.
func Lookup(key string) (Badge, bool) {
	for _, b := range catalog {
		if b.Key == key {
			return b, true
		}
	}
	return Badge{}, false
}

// Partition splits badges by whether their key is in earned. Both halves keep
// the order of badges; earned keys outside the catalog are ignored.
func Partition(badges []Badge, earned []string) (got, locked []Badge) {
	set := make(map[string]struct{}, len(earned))
	for _, k := range earned {
		set[k] = struct{}{}
	}

	got = make([]Badge, 0, len(badges))
	locked = make([]Badge, 0, len(badges))
	for _, b := range badges {
		if _, ok := set[b.Key]; ok {
			got = append(got, b)
			continue
		}
		locked = append(locked, b)
	}
	return got, locked
}

type Summary struct {
	Earned []Badge `json:"earned"`
	Locked []Badge `json:"locked"`
}

func Summarize(earned []string) Summary {
	got, locked := Partition(catalog, earned)
	return Summary{Earned: got, Locked: locked}
}

func (s Summary) Total() int { return len(s.Earned) + len(s.Locked) }

func (s Summary) String() string {
	return fmt.Sprintf("unlocked %d / %d", len(s.Earned), s.Total())
}
