package analytics

import (
	"fmt"
	"strings"
	"time"

	"waterguard/internal/storage"
)

// DailyStats summarises one calendar day.
type DailyStats struct {
	Date            string `json:"date"`
	Signups         int    `json:"signups"`
	Bookings        int    `json:"bookings"`
	KitsDueToday    int    `json:"kits_due_today"`
	ChatQuestions   int    `json:"chat_questions"`
	TotalUsers      int    `json:"total_users"`
	TotalBookings   int    `json:"total_bookings"`
	UnparsedRecords int    `json:"unparsed_records,omitempty"`
}

// Daily counts records created in [day, day+24h) in day's location.
// KitsDueToday counts bookings whose delivery date equals the day.
func Daily(users []storage.UserRecord, bookings []storage.BookingRecord, events []storage.ChatEvent, day time.Time) *DailyStats {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	dateStr := start.Format("2006-01-02")

	stats := &DailyStats{
		Date:          dateStr,
		TotalUsers:    len(users),
		TotalBookings: len(bookings),
	}

	inDay := func(ts string) (bool, bool) {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return false, false
		}
		return !t.Before(start) && t.Before(end), true
	}

	for _, u := range users {
		in, ok := inDay(u.SignupDate)
		if !ok {
			stats.UnparsedRecords++
			continue
		}
		if in {
			stats.Signups++
		}
	}
	for _, b := range bookings {
		if strings.TrimSpace(b.Date) == dateStr {
			stats.KitsDueToday++
		}
		in, ok := inDay(b.SavedAt)
		if !ok {
			stats.UnparsedRecords++
			continue
		}
		if in {
			stats.Bookings++
		}
	}
	for _, ev := range events {
		if !ev.Timestamp.Before(start) && ev.Timestamp.Before(end) {
			stats.ChatQuestions++
		}
	}
	return stats
}

// Text renders the stats as a plain-text report.
func (s *DailyStats) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "WaterGuard report for %s\n\n", s.Date)
	fmt.Fprintf(&b, "New signups: %d (total %d)\n", s.Signups, s.TotalUsers)
	fmt.Fprintf(&b, "New kit bookings: %d (total %d)\n", s.Bookings, s.TotalBookings)
	fmt.Fprintf(&b, "Kits due for delivery: %d\n", s.KitsDueToday)
	fmt.Fprintf(&b, "AquaBot questions: %d\n", s.ChatQuestions)
	if s.UnparsedRecords > 0 {
		fmt.Fprintf(&b, "Records with unreadable timestamps: %d\n", s.UnparsedRecords)
	}
	return b.String()
}

// HTML renders the stats for Telegram's HTML parse mode.
func (s *DailyStats) HTML() string {
	return fmt.Sprintf("📊 <b>WaterGuard %s</b>\n🎉 Signups: %d (total %d)\n📦 Bookings: %d (total %d)\n🚚 Due today: %d\n💬 AquaBot questions: %d",
		s.Date, s.Signups, s.TotalUsers, s.Bookings, s.TotalBookings, s.KitsDueToday, s.ChatQuestions)
}
