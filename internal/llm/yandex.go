package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Morwran/yagpt"
)

// YandexClient answers through YandexGPT Lite. The OAuth token is traded for
// an IAM token once, when the client is built.
type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("yandex iam: %w", err)
	}
	token, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("yandex iam token exchange: %w", err)
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("yandex folder %q: %w", folderID, err)
	}
	return &YandexClient{ya: ya, iamToken: token.IamToken}, nil
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, toYandexMessages(messages))
	if err != nil {
		return Response{}, fmt.Errorf("yandex completion: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, errors.New("yandex returned no alternatives")
	}
	return Response{
		Content:          resp.Alternatives[0].Message.Content,
		Model:            yagpt.YaModelLite,
		PromptTokens:     int(resp.Usage.InputTextTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}

// toYandexMessages puts a single merged system message first, keeps assistant
// turns and sends every other role as user. Blank messages are dropped.
func toYandexMessages(messages []Message) []yagpt.Message {
	var (
		system []string
		turns  []yagpt.Message
	)
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			turns = append(turns, yagpt.Message{Role: RoleAssistant, Content: m.Content})
		default:
			turns = append(turns, yagpt.Message{Role: RoleUser, Content: m.Content})
		}
	}
	if len(system) == 0 {
		return turns
	}
	return append([]yagpt.Message{{Role: RoleSystem, Content: strings.Join(system, "\n\n")}}, turns...)
}
