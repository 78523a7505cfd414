package whisper

import (
	"bytes"
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// Service provides Whisper-backed audio transcription and translation
type Service interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	Translate(ctx context.Context, audio []byte, filename string) (string, error)
}

type client struct {
	cli      *openai.Client
	model    string
	language string
}

var _ Service = &client{}

// Option configures the Whisper service client
type Option func(*client)

// WithModel overrides the transcription model
func WithModel(name string) Option {
	return func(c *client) {
		c.model = name
	}
}

// WithLanguage sets the source language hint for transcription.
// Translation always targets English regardless of this hint.
func WithLanguage(lang string) Option {
	return func(c *client) {
		c.language = lang
	}
}

// New creates a Whisper service client
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("openai API key is required")
	}

	c := &client{
		cli:      openai.NewClient(apiKey),
		model:    openai.Whisper1,
		language: "tl",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Transcribe returns the transcript of the audio in its source language
func (c *client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
		Language: c.language,
	})
	if err != nil {
		return "", goerr.Wrap(err, "whisper transcription failed", goerr.V("filename", filename))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", goerr.New("whisper returned an empty transcription", goerr.V("filename", filename))
	}
	return text, nil
}

// Translate returns the English translation of the audio
func (c *client) Translate(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.cli.CreateTranslation(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	})
	if err != nil {
		return "", goerr.Wrap(err, "whisper translation failed", goerr.V("filename", filename))
	}

	return strings.TrimSpace(resp.Text), nil
}
