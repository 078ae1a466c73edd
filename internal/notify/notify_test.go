package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, f.err
}

func TestTelegram_Notify(t *testing.T) {
	fs := &fakeSender{}
	n := &Telegram{s: fs, chatID: 999}
	if err := n.Notify(context.Background(), "<b>New booking</b>"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(fs.sent))
	}
	m := fs.sent[0]
	if m.ChatID != 999 || m.Text != "<b>New booking</b>" || m.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestTelegram_NotifyError(t *testing.T) {
	n := &Telegram{s: &fakeSender{err: errors.New("blocked")}, chatID: 1}
	if err := n.Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Notify(context.Background(), "x"); err != nil {
		t.Fatalf("nop returned %v", err)
	}
}

type fakeSNS struct {
	inputs []*sns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNS_Notify(t *testing.T) {
	f := &fakeSNS{}
	n := &SNS{client: f, topicARN: "arn:aws:sns:us-east-1:123:admins"}
	if err := n.Notify(context.Background(), "🎉 <b>New signup</b>\nAsha &lt;a@x.io&gt;"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(f.inputs) != 1 {
		t.Fatalf("want 1 publish, got %d", len(f.inputs))
	}
	in := f.inputs[0]
	if *in.TopicArn != "arn:aws:sns:us-east-1:123:admins" {
		t.Fatalf("topic: %s", *in.TopicArn)
	}
	if *in.Message != "🎉 New signup\nAsha <a@x.io>" {
		t.Fatalf("message: %q", *in.Message)
	}
}

type errNotifier struct{ err error }

func (e errNotifier) Notify(context.Context, string) error { return e.err }

func TestMulti(t *testing.T) {
	fs := &fakeSender{}
	m := Multi{&Telegram{s: fs, chatID: 1}, errNotifier{err: errors.New("sns down")}, Nop{}}
	err := m.Notify(context.Background(), "hi")
	if err == nil || err.Error() != "sns down" {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("telegram should still receive the message")
	}
}
