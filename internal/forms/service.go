package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"waterguard/internal/apperr"
	"waterguard/internal/logger"
	"waterguard/internal/mail"
	"waterguard/internal/metrics"
	"waterguard/internal/notify"
	"waterguard/internal/storage"
	"waterguard/internal/validation"
)

const (
	MsgBookingOK     = "✅ Booking confirmed and email sent!"
	MsgSignupOK      = "✅ Signup successful. Welcome email sent!"
	msgBookingMailKO = "❌ Email sending failed: "
	msgSignupMailKO  = "❌ Email failed: "
	msgMissingFields = "❌ Missing required field(s): "
)

var (
	signupSchema  = validation.Required("name", "email")
	bookingSchema = validation.Required("name", "email", "address", "date")
)

// Service handles signup and kit-booking submissions: validate, persist,
// tell the admin, then email the customer. Only the email outcome decides
// the response; a failed write is logged and the request carries on.
type Service struct {
	store    *storage.Store
	sender   mail.Sender
	notifier notify.Notifier
	siteURL  string
	log      *zap.Logger
	now      func() time.Time
}

func New(store *storage.Store, sender mail.Sender, notifier notify.Notifier, siteURL string, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		store:    store,
		sender:   sender,
		notifier: notifier,
		siteURL:  siteURL,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Signup validates the decoded JSON body, stores the user and sends the
// welcome email.
func (s *Service) Signup(ctx context.Context, body map[string]any) (string, error) {
	if err := checkRequired(signupSchema, body); err != nil {
		return "", err
	}
	rec := storage.UserRecord{
		Name:       field(body, "name"),
		Email:      field(body, "email"),
		Phone:      field(body, "phone"),
		Password:   rawField(body, "password"),
		SignupDate: storage.Timestamp(s.now()),
	}
	s.persist(ctx, "users", func() error { return s.store.Users.Append(rec) })
	s.notify(ctx, fmt.Sprintf("🎉 <b>New signup</b>\n%s &lt;%s&gt;", html.EscapeString(rec.Name), html.EscapeString(rec.Email)))

	msg, err := mail.Welcome(rec.Email, mail.WelcomeData{Name: rec.Name, SiteURL: s.siteURL})
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	metrics.Emails.WithLabelValues("welcome", metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Error("welcome email failed", zap.String("to", rec.Email), zap.Error(err))
		return "", apperr.External(msgSignupMailKO+err.Error(), err)
	}
	s.log.Info("signup completed", zap.String("email", rec.Email))
	return MsgSignupOK, nil
}

// BookKit validates the decoded JSON body, stores the booking and sends the
// confirmation email.
func (s *Service) BookKit(ctx context.Context, body map[string]any) (string, error) {
	if err := checkRequired(bookingSchema, body); err != nil {
		return "", err
	}
	rec := storage.BookingRecord{
		Name:    field(body, "name"),
		Email:   field(body, "email"),
		Phone:   field(body, "phone"),
		Address: field(body, "address"),
		Date:    field(body, "date"),
		SavedAt: storage.Timestamp(s.now()),
	}
	s.persist(ctx, "bookings", func() error { return s.store.Bookings.Append(rec) })
	s.notify(ctx, fmt.Sprintf("📦 <b>New kit booking</b>\n%s &lt;%s&gt;\n📍 %s\n🗓 %s",
		html.EscapeString(rec.Name), html.EscapeString(rec.Email),
		html.EscapeString(rec.Address), html.EscapeString(rec.Date)))

	msg, err := mail.BookingConfirmation(rec.Email, mail.BookingData{Name: rec.Name, Address: rec.Address, Date: rec.Date})
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	metrics.Emails.WithLabelValues("booking", metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Error("booking email failed", zap.String("to", rec.Email), zap.Error(err))
		return "", apperr.External(msgBookingMailKO+err.Error(), err)
	}
	s.log.Info("booking completed", zap.String("email", rec.Email), zap.String("date", rec.Date))
	return MsgBookingOK, nil
}

func checkRequired(schema *validation.Schema, raw map[string]any) error {
	fields, err := schema.Check(raw)
	if err != nil {
		return apperr.Validation("❌ Invalid request: " + err.Error())
	}
	if len(fields) > 0 {
		return apperr.Validation(msgMissingFields + strings.Join(fields, ", "))
	}
	return nil
}

// rawField returns a property as text: strings as sent, numbers without
// exponent, other values in their JSON form, and "" when absent or null.
func rawField(body map[string]any, key string) string {
	switch v := body[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func field(body map[string]any, key string) string {
	return strings.TrimSpace(rawField(body, key))
}

func (s *Service) persist(_ context.Context, collection string, write func() error) {
	if err := write(); err != nil {
		perr := apperr.Persistence("failed to save "+collection, err)
		s.log.Error("persistence failed, continuing", zap.String("collection", collection), zap.Error(perr))
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn("admin notification failed", zap.Error(err))
	}
}
