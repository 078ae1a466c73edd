package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"waterguard/internal/apperr"
	"waterguard/internal/llm"
	"waterguard/internal/logger"
	"waterguard/internal/metrics"
	"waterguard/internal/reply"
	"waterguard/internal/storage"
)

const (
	MsgEmptyPrompt = "❌ Please provide a valid question."
	msgModelError  = "❌ An error occurred: "
)

// BuildPrompt wraps the user's question in the AquaBot instructions.
func BuildPrompt(question string) string {
	return "You are AquaBot, an expert on water sanitation and cleaning. " +
		"Answer the user's question clearly and accurately with practical and reliable information.\n\n" +
		"User's Question: " + question + "\n" +
		"Answer:"
}

// Answer is the post-processed model reply for one question.
type Answer struct {
	reply.Formatted
	Model string
}

type Service struct {
	llm      llm.Client
	recorder storage.Recorder
	log      *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithRecorder stores every answered question in rec.
func WithRecorder(rec storage.Recorder) Option { return func(s *Service) { s.recorder = rec } }

// WithTimeout bounds each model call. Zero means no bound.
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = logger.OrNop(l) } }

func New(client llm.Client, opts ...Option) *Service {
	s := &Service{llm: client, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask sends a question to the model and formats the reply. An empty question
// is a validation error; a model failure is an external error whose message
// is safe to show to the user.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		metrics.ChatRequests.WithLabelValues("invalid").Inc()
		return Answer{}, apperr.Validation(MsgEmptyPrompt)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.llm.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(question)}})
	if err != nil {
		metrics.ChatRequests.WithLabelValues("model_error").Inc()
		s.log.Error("model call failed", zap.Error(err))
		return Answer{}, apperr.External(msgModelError+err.Error(), fmt.Errorf("generate: %w", err))
	}

	ans := Answer{Formatted: reply.Format(resp.Content), Model: resp.Model}
	metrics.ChatRequests.WithLabelValues("ok").Inc()
	s.log.Debug("model replied",
		zap.String("model", resp.Model),
		zap.Int("items", len(ans.Items)),
		zap.Int("total_tokens", resp.TotalTokens))

	if s.recorder != nil {
		ev := storage.ChatEvent{Timestamp: s.now().UTC(), Prompt: question, Reply: ans.HTML, Model: resp.Model}
		if err := s.recorder.AppendEvent(ev); err != nil {
			s.log.Error("failed to record chat event", zap.Error(err))
		}
	}
	return ans, nil
}
