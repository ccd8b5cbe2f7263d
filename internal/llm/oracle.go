package llm

import (
	"context"
	"fmt"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"

	"saathi/internal/conversation"
)

const (
	DefaultModel        = "gpt-5-mini"
	DefaultSystemPrompt = "You are a helpful female AI assistant that speaks Hindi."
)

// ClientSource hands out a ready OpenAI client.
type ClientSource interface {
	Client() (*openai.Client, error)
}

// Oracle generates the assistant's next turn from the full transcript.
type Oracle struct {
	source       ClientSource
	model        string
	systemPrompt string
}

func NewOracle(src ClientSource, model, systemPrompt string) *Oracle {
	if model == "" {
		model = DefaultModel
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Oracle{source: src, model: model, systemPrompt: systemPrompt}
}

// Reply returns the assistant text for history. An empty string means the
// model produced no content.
func (o *Oracle) Reply(ctx context.Context, history []conversation.Message) (string, error) {
	client, err := o.source.Client()
	if err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	msgs = append(msgs, openai.SystemMessage(o.systemPrompt))
	for _, m := range history {
		switch m.Role {
		case conversation.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(o.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	content := resp.Choices[0].Message.Content
	log.Debug("Reply ready", "model", o.model, "chars", len(content))
	return content, nil
}
