package models

import (
	"fmt"
	"regexp"
	"time"
)

// Poll state constants
const (
	StateDraft      = "draft"
	StateCollecting = "collecting"
	StateFinalized  = "finalized"
)

// Slot length bounds in minutes. Anything outside this range produces
// degenerate option counts (thousands of slivers or one giant block).
const (
	MinSlotMinutes = 15
	MaxSlotMinutes = 240
)

// Storage layouts for naive local timestamps, dates and times of day.
const (
	TimestampLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
)

var pollIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidPollID reports whether id is a usable URL-safe short code.
func ValidPollID(id string) bool {
	return pollIDPattern.MatchString(id)
}

// TimeOfDay is a naive wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Hour*60+t.Minute < o.Hour*60+o.Minute
}

// On anchors the time of day onto a calendar day.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// SlotConfig is the slot-generation input for a poll: an inclusive date
// range, a daily time window and a slot length.
type SlotConfig struct {
	StartDate   time.Time
	EndDate     time.Time
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	SlotMinutes int
}

// Validate checks the configuration invariants. It returns a
// *ValidationError naming the offending field, or nil.
func (c SlotConfig) Validate() error {
	if c.StartDate.After(c.EndDate) {
		return &ValidationError{Field: "date_range", Reason: "start date must not be after end date"}
	}
	if !c.StartTime.Before(c.EndTime) {
		return &ValidationError{Field: "time_window", Reason: "start time must be before end time"}
	}
	if c.SlotMinutes < MinSlotMinutes || c.SlotMinutes > MaxSlotMinutes {
		return &ValidationError{
			Field:  "slot_minutes",
			Reason: fmt.Sprintf("slot length must be between %d and %d minutes", MinSlotMinutes, MaxSlotMinutes),
		}
	}
	return nil
}

// Slot is one generated candidate interval, before it is persisted as an
// Option.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Domain types

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Config      SlotConfig `json:"-"`
	Password    string     `json:"-"` // poll access password, empty means open voting
	FinalStart  *time.Time `json:"final_start,omitempty"`
	FinalEnd    *time.Time `json:"final_end,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Finalized reports whether the organizer has bound a confirmed slot.
func (p Poll) Finalized() bool {
	return p.FinalStart != nil && p.FinalEnd != nil
}

type Option struct {
	ID     string    `json:"id"`
	PollID string    `json:"poll_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type Vote struct {
	ID         string `json:"-"`
	PollID     string `json:"poll_id"`
	VoterName  string `json:"voter_name"`
	OptionID   string `json:"option_id"`
	Available  bool   `json:"available"`
	Comment    string `json:"comment,omitempty"`
	Credential string `json:"-"` // never expose in JSON
}

type PollSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Aggregation result types

type OptionResult struct {
	OptionID  string    `json:"option_id"`
	Label     string    `json:"label"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Count     int       `json:"count"`
	Voters    []string  `json:"voters"`
	Unanimous bool      `json:"unanimous"`
}

type PollResults struct {
	PollID             string            `json:"poll_id"`
	State              string            `json:"state"`
	Participants       []string          `json:"participants"`
	Options            []OptionResult    `json:"options"`
	ParticipantChoices map[string]string `json:"participant_choices"`
	VoterSummary       map[string]string `json:"voter_summary"`
	BestOptionID       string            `json:"best_option_id,omitempty"`
}

// Request types

type CreatePollRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"` // 2006-01-02
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"` // 15:04
	EndTime     string `json:"end_time"`
	SlotMinutes int    `json:"slot_minutes"`
	Password    string `json:"password,omitempty"`
}

type NarrowOptionsRequest struct {
	Keep []string `json:"keep"`
}

type SubmitBallotRequest struct {
	VoterName    string          `json:"voter_name"`
	Credential   string          `json:"credential"`
	PollPassword string          `json:"poll_password,omitempty"`
	Comment      string          `json:"comment,omitempty"`
	Available    map[string]bool `json:"available"` // option_id -> available
}

type EditBallotRequest struct {
	Available map[string]bool `json:"available"`
}

type FinalizeRequest struct {
	OptionID string `json:"option_id"`
}

type PushCalendarRequest struct {
	BaseURL    string `json:"base_url"`
	Account    string `json:"account"`
	Password   string `json:"password"`
	CalendarID string `json:"calendar_id"`
}

// Response types

type CreatePollResponse struct {
	PollID  string   `json:"poll_id"`
	State   string   `json:"state"`
	Options []Option `json:"options"`
}

type PollListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Created   string    `json:"created"` // human-readable recency
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
	State   string   `json:"state"`
}

type BallotResponse struct {
	VoterName string          `json:"voter_name"`
	Available map[string]bool `json:"available"`
	Comment   string          `json:"comment,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
