package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterguard/internal/apperr"
	"waterguard/internal/llm"
	"waterguard/internal/storage"
)

type fakeLLM struct {
	resp  llm.Response
	err   error
	calls [][]llm.Message
	block bool
}

func (f *fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	f.calls = append(f.calls, msgs)
	if f.block {
		<-ctx.Done()
		return llm.Response{}, ctx.Err()
	}
	return f.resp, f.err
}

type memRecorder struct {
	events []storage.ChatEvent
	err    error
}

func (m *memRecorder) AppendEvent(ev storage.ChatEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) LoadEvents() ([]storage.ChatEvent, error) { return m.events, nil }

func TestAsk_EmptyPrompt(t *testing.T) {
	f := &fakeLLM{}
	svc := New(f)
	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), q)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, MsgEmptyPrompt, apperr.MessageOf(err))
	}
	assert.Empty(t, f.calls, "model must not be called for empty prompts")
}

func TestAsk_FormatsReply(t *testing.T) {
	f := &fakeLLM{resp: llm.Response{Content: "- **Boil** water\n- Use a [filter](http://x)", Model: "gemini-test"}}
	rec := &memRecorder{}
	svc := New(f, WithRecorder(rec))

	ans, err := svc.Ask(context.Background(), "  how do I purify water?  ")
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>Boil water</li><li>Use a filter</li></ul>", ans.HTML)
	assert.Equal(t, []string{"Boil water", "Use a filter"}, ans.Items)
	assert.Equal(t, "gemini-test", ans.Model)

	require.Len(t, f.calls, 1)
	require.Len(t, f.calls[0], 1)
	msg := f.calls[0][0]
	assert.Equal(t, llm.RoleUser, msg.Role)
	assert.True(t, strings.HasPrefix(msg.Content, "You are AquaBot"))
	assert.Contains(t, msg.Content, "User's Question: how do I purify water?\nAnswer:")

	require.Len(t, rec.events, 1)
	assert.Equal(t, "how do I purify water?", rec.events[0].Prompt)
	assert.Equal(t, ans.HTML, rec.events[0].Reply)
}

func TestAsk_ModelError(t *testing.T) {
	svc := New(&fakeLLM{err: errors.New("quota exceeded")})
	_, err := svc.Ask(context.Background(), "is rain water safe?")
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
	assert.Equal(t, "❌ An error occurred: quota exceeded", apperr.MessageOf(err))
}

func TestAsk_RecorderFailureIgnored(t *testing.T) {
	svc := New(&fakeLLM{resp: llm.Response{Content: "Boil it."}}, WithRecorder(&memRecorder{err: errors.New("disk full")}))
	ans, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "<p>Boil it.</p>", ans.HTML)
}

func TestAsk_Timeout(t *testing.T) {
	svc := New(&fakeLLM{block: true}, WithTimeout(10*time.Millisecond))
	_, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
