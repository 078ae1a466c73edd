package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes admin notifications to a topic as plain text.
type SNS struct {
	client   snsAPI
	topicARN string
}

func NewSNS(ctx context.Context, region, topicARN string) (*SNS, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNS{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

func (s *SNS) Notify(ctx context.Context, htmlText string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String("WaterGuard"),
		Message:  aws.String(PlainText(htmlText)),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// PlainText drops tags and unescapes entities of a Telegram-HTML message.
func PlainText(htmlText string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(htmlText, ""))
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, htmlText string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, htmlText); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
