// Package translate asks a vision-capable chat model to read and translate
// the text in a screenshot.
//
// The model is reached through eino's OpenAI-compatible chat model, so any
// server speaking that API (LM Studio, llama.cpp, vLLM, OpenAI itself) works.
// Replies are parsed strictly into overlay.TranslationEntry values.
package translate

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// Prompt instructs the model to extract and translate every text in the
// image as a JSON array of entries.
const Prompt = `You're an expert translator. Extract the texts in the image and translate them. Character names or the dialogue may be surrounded in brackets like this: 「Name」. Multiple lines of dialogue in the same location should be merged into one entry with consecutive sentences. Format output as JSON. Remember to escape quotes and other characters required by the JSON spec:
[
    {
        "location": "message window",
        "original": "「キヨミ」 こんにちは。",
        "originalLanguage": "Japanese",
        "translation": "'Kiyomi': Hello.",
        "translationLanguage": "English"
    },
    {
        "location": "left side menu",
        "original": "USE\nGO!!\nLOAD\nSAVE\nMORE",
        "originalLanguage": "English",
        "translation": "USE\nGO!!\nLOAD\nSAVE\nMORE",
        "translationLanguage": "English"
    }
]
Reply with the JSON array only.`

// ChatModel is the part of eino's chat model the translator needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Config selects the model endpoint.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Translator turns screenshots into translation entries.
type Translator struct {
	chat      ChatModel
	model     string
	maxTokens int
}

// New connects to an OpenAI-compatible endpoint described by cfg.
func New(ctx context.Context, cfg Config) (*Translator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	chatModelConfig := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewWithModel(chatModel, cfg.Model, cfg.MaxTokens), nil
}

// NewWithModel wraps an existing chat model. name identifies the model in
// cache keys.
func NewWithModel(chat ChatModel, name string, maxTokens int) *Translator {
	return &Translator{chat: chat, model: name, maxTokens: maxTokens}
}

// Model returns the model name.
func (t *Translator) Model() string {
	return t.model
}

// Translate sends png to the model and parses its reply. Malformed replies
// return an error wrapping overlay.ErrMalformedEntry.
func (t *Translator) Translate(ctx context.Context, png []byte) ([]overlay.TranslationEntry, error) {
	raw, err := t.Raw(ctx, png)
	if err != nil {
		return nil, err
	}
	entries, err := overlay.ParseEntries([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("model reply: %w", err)
	}
	return entries, nil
}

// Raw returns the model's unparsed reply for png.
func (t *Translator) Raw(ctx context.Context, png []byte) (string, error) {
	var opts []model.Option
	if t.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(t.maxTokens))
	}

	resp, err := t.chat.Generate(ctx, []*schema.Message{Request(png)}, opts...)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("translation request returned an empty reply")
	}
	return resp.Content, nil
}

// Request builds the user message carrying the prompt and the image.
func Request(png []byte) *schema.Message {
	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: Prompt},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
				},
			},
		},
	}
}
