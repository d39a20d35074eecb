package coach

import (
	"context"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

// historyLimit is how many previous turns are replayed to the model.
const historyLimit = 12

// OpenAIProposer asks an OpenAI chat model for a plan.
type OpenAIProposer struct {
	client *openai.Client
	model  string
}

func NewOpenAIProposer(apiKey, model string) *OpenAIProposer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProposer{client: openai.NewClient(apiKey), model: model}
}

// NewOpenAIProposerWithConfig allows a custom base URL or HTTP client.
func NewOpenAIProposerWithConfig(cfg openai.ClientConfig, model string) *OpenAIProposer {
	return &OpenAIProposer{client: openai.NewClientWithConfig(cfg), model: model}
}

func (p *OpenAIProposer) Propose(ctx context.Context, req Request) (Reply, error) {
	history := req.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("openai returned no choices")
	}
	log.Printf("[info] openai %s finished: %s", p.model, resp.Choices[0].FinishReason)
	return ParseReply(resp.Choices[0].Message.Content)
}
