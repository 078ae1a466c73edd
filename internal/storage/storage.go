package storage

import (
	"time"

	"go.uber.org/zap"
)

// UserRecord is one signup. Password is stored exactly as submitted.
type UserRecord struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	SignupDate string `json:"signup_date"`
}

// BookingRecord is one testing-kit booking. Date is the requested delivery
// date as sent by the form.
type BookingRecord struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Date    string `json:"date"`
	SavedAt string `json:"saved_at"`
}

// ChatEvent is one answered AquaBot question.
type ChatEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Reply     string    `json:"reply"`
	Model     string    `json:"model,omitempty"`
}

// Recorder abstracts persistence of chat events.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event ChatEvent) error
	LoadEvents() ([]ChatEvent, error)
}

// Store groups the two form collections.
type Store struct {
	Users    *Collection[UserRecord]
	Bookings *Collection[BookingRecord]
}

func NewStore(usersPath, bookingsPath string, log *zap.Logger, onRecover RecoverFunc) *Store {
	opts := []Option{WithLogger(log), WithRecoverHook(onRecover)}
	return &Store{
		Users:    NewCollection[UserRecord]("users", usersPath, opts...),
		Bookings: NewCollection[BookingRecord]("bookings", bookingsPath, opts...),
	}
}

// Timestamp formats t the way records store it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
