package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"waterguard/internal/logger"
	"waterguard/internal/mail"
	"waterguard/internal/notify"
	"waterguard/internal/storage"
)

// Reporter gathers the stored records and delivers the daily summary.
type Reporter struct {
	store    *storage.Store
	events   storage.Recorder
	sender   mail.Sender
	notifier notify.Notifier
	to       string
	log      *zap.Logger
	now      func() time.Time
}

// NewReporter wires the report sources and sinks. events, sender and
// notifier may be nil; to may be empty to skip the email.
func NewReporter(store *storage.Store, events storage.Recorder, sender mail.Sender, notifier notify.Notifier, to string, log *zap.Logger) *Reporter {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Reporter{
		store:    store,
		events:   events,
		sender:   sender,
		notifier: notifier,
		to:       to,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Summary computes the stats for day. Corrupt collection files are moved
// aside by the store and count as empty.
func (r *Reporter) Summary(day time.Time) (*DailyStats, error) {
	users, err := r.store.Users.Load()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	bookings, err := r.store.Bookings.Load()
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	var events []storage.ChatEvent
	if r.events != nil {
		if events, err = r.events.LoadEvents(); err != nil {
			return nil, fmt.Errorf("load chat events: %w", err)
		}
	}
	return Daily(users, bookings, events, day), nil
}

// Run builds today's (UTC) summary and sends it to every configured sink.
func (r *Reporter) Run(ctx context.Context) error {
	stats, err := r.Summary(r.now().UTC())
	if err != nil {
		return err
	}
	r.log.Info("daily report",
		zap.String("date", stats.Date),
		zap.Int("signups", stats.Signups),
		zap.Int("bookings", stats.Bookings),
		zap.Int("chat_questions", stats.ChatQuestions))

	var errs []error
	if r.sender != nil && r.to != "" {
		msg := mail.Message{To: r.to, Subject: mail.SubjectReport + " " + stats.Date, Body: stats.Text()}
		if err := r.sender.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("email report: %w", err))
		}
	}
	if err := r.notifier.Notify(ctx, stats.HTML()); err != nil {
		errs = append(errs, fmt.Errorf("notify report: %w", err))
	}
	return errors.Join(errs...)
}
