package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"waterguard/internal/analytics"
	"waterguard/internal/apperr"
	"waterguard/internal/chat"
)

// AskParams are the arguments of ask_aquabot.
type AskParams struct {
	Question string `json:"question" mcp:"water sanitation question to ask AquaBot"`
}

// SummaryParams are the arguments of records_summary.
type SummaryParams struct {
	Date string `json:"date,omitempty" mcp:"day to summarise as YYYY-MM-DD (default: today, UTC)"`
}

type summarizer interface {
	Summary(day time.Time) (*analytics.DailyStats, error)
}

type asker interface {
	Ask(ctx context.Context, question string) (chat.Answer, error)
}

// AquaBotTools implements the MCP tool handlers.
type AquaBotTools struct {
	chat    asker
	reports summarizer
	now     func() time.Time
}

func (t *AquaBotTools) AskAquaBot(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[AskParams]) (*mcp.CallToolResultFor[any], error) {
	ans, err := t.chat.Ask(ctx, params.Arguments.Question)
	if err != nil {
		return errorResult(apperr.MessageOf(err)), nil
	}

	var b strings.Builder
	for _, item := range ans.Items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.TrimRight(b.String(), "\n")},
		},
		Meta: map[string]interface{}{
			"html":  ans.HTML,
			"model": ans.Model,
			"items": len(ans.Items),
		},
	}, nil
}

func (t *AquaBotTools) RecordsSummary(_ context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[SummaryParams]) (*mcp.CallToolResultFor[any], error) {
	day := t.now().UTC()
	if d := strings.TrimSpace(params.Arguments.Date); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return errorResult(fmt.Sprintf("❌ Invalid date %q, expected YYYY-MM-DD", d)), nil
		}
		day = parsed
	}

	stats, err := t.reports.Summary(day)
	if err != nil {
		return errorResult(fmt.Sprintf("❌ Failed to read records: %v", err)), nil
	}
	raw, _ := json.Marshal(stats)
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: stats.Text()},
		},
		Meta: map[string]interface{}{
			"stats": json.RawMessage(raw),
		},
	}, nil
}

func errorResult(msg string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
