package ai

import (
	"context"
	"fmt"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/mansion"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"strings"
)

// MaxTokens keeps narrations to a sentence or two.
const MaxTokens = 60

var ErrEmptyNarration = errors.NewSentinel("empty narration")

const systemPrompt = `Você é o narrador de um jogo de detetive ambientado em uma mansão antiga.
Descreva a sala em uma única frase curta e sombria, em português. Não revele culpados.`

// Client narrates rooms with a chat completion model. Narrations are cached per room so that revisiting a room
// does not cost another request. It is not safe for concurrent use.
type Client struct {
	client *openai.Client
	model  string
	cache  map[string]string
}

// NewClient creates a narrator. baseURL overrides the OpenAI API endpoint when not empty.
func NewClient(apiKey string, baseURL string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT3Dot5Turbo,
		cache:  map[string]string{},
	}
}

func (c *Client) Narrate(ctx context.Context, room *mansion.Room) (string, error) {
	if narration, ok := c.cache[room.Name]; ok {
		return narration, nil
	}

	prompt := fmt.Sprintf("Sala: %s.", room.Name)
	if room.HasClue() {
		prompt += fmt.Sprintf(" Há uma pista aqui: %s.", room.Clue)
	}

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("room", room.Name))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyNarration, "no choices", slog.String("room", room.Name))
	}

	narration := strings.TrimSpace(completion.Choices[0].Message.Content)
	if narration == "" {
		return "", errors.Wrap(ErrEmptyNarration, "blank content", slog.String("room", room.Name))
	}
	c.cache[room.Name] = narration
	return narration, nil
}
