package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
)

//go:embed prompt/document_examples.md
var documentExamples string

const (
	transcribePrompt = "You are a world-class transcription engine. " +
		"Transcribe the following audio to plain text only, with no extra formatting:\n\n" +
		"(Begin audio input)"

	translatePrompt = "You are a world-class translation engine. " +
		"Detect the language of the following text and translate it into English. " +
		"Return ONLY the translated English text with no extra commentary:\n\n"

	diarizePrompt = "You are a speaker-diarization engine. " +
		"For the audio input, return a JSON object with a top-level `segments` array. " +
		"Each segment must have: `speaker` (string) and `text` (transcript), and may " +
		"include `start_time` and `end_time` in seconds. Also return a one-sentence " +
		"`summary` of the conversation."

	ocrPrompt = "Extract all visible printed and handwritten text from this scanned bank document image."
)

// Service provides Gemini-backed media processing
type Service interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	TranslateText(ctx context.Context, text string) (string, error)
	Diarize(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error)
	ExtractDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error)
}

type client struct {
	genai      *genai.Client
	proModel   string
	flashModel string
}

var _ Service = &client{}

// Option configures the Gemini service client
type Option func(*client)

// WithProModel overrides the model used for audio transcription and
// diarization
func WithProModel(name string) Option {
	return func(c *client) {
		c.proModel = name
	}
}

// WithFlashModel overrides the model used for document extraction
func WithFlashModel(name string) Option {
	return func(c *client) {
		c.flashModel = name
	}
}

// New creates a Gemini service client authenticated with an API key
func New(ctx context.Context, apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("gemini API key is required")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	c := &client{
		genai:      gc,
		proModel:   "gemini-2.5-pro",
		flashModel: "gemini-1.5-flash",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) generate(ctx context.Context, mdl string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.genai.Models.GenerateContent(ctx, mdl, contents, cfg)
	if err != nil {
		return "", goerr.Wrap(err, "gemini generate content failed", goerr.V("model", mdl))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", goerr.New("gemini returned an empty response", goerr.V("model", mdl))
	}
	return text, nil
}

// TranscribeAudio transcribes inline audio bytes to plain text
func (c *client) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(audio, mimeType),
		genai.NewPartFromText(transcribePrompt),
	}
	return c.generate(ctx, c.proModel, parts, nil)
}

// TranslateText translates text of any detected language into English
func (c *client) TranslateText(ctx context.Context, text string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(translatePrompt + text),
	}
	return c.generate(ctx, c.proModel, parts, nil)
}

// diarizationSchema constrains Gemini to the segment list we can parse
func diarizationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"segments": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"speaker":    {Type: genai.TypeString},
						"text":       {Type: genai.TypeString},
						"start_time": {Type: genai.TypeNumber},
						"end_time":   {Type: genai.TypeNumber},
					},
					Required: []string{"speaker", "text"},
				},
			},
			"summary": {Type: genai.TypeString},
		},
		Required: []string{"segments"},
	}
}

// Diarize partitions the audio into speaker-attributed segments
func (c *client) Diarize(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(audio, mimeType),
		genai.NewPartFromText(diarizePrompt),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   diarizationSchema(),
	}

	text, err := c.generate(ctx, c.proModel, parts, cfg)
	if err != nil {
		return nil, err
	}

	return parseDiarization([]byte(text))
}

func parseDiarization(data []byte) (*model.DiarizationResult, error) {
	var raw struct {
		Segments []model.SpeakerSegment `json:"segments"`
		Summary  string                 `json:"summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse diarization response",
			goerr.V("response", string(data)))
	}

	for i, seg := range raw.Segments {
		if seg.Speaker == "" || seg.Text == "" {
			return nil, goerr.New("diarization segment missing speaker or text",
				goerr.V("index", i))
		}
	}

	result := &model.DiarizationResult{
		Speakers: raw.Segments,
		Summary:  raw.Summary,
	}
	result.SpeakerCount = result.DistinctSpeakers()
	return result, nil
}

// ExtractDocument runs the two-pass document flow: OCR the scanned image,
// then extract schema-shaped JSON from the OCR text
func (c *client) ExtractDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error) {
	ocrParts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(ocrPrompt),
	}
	rawText, err := c.generate(ctx, c.flashModel, ocrParts, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "document OCR pass failed")
	}

	schemaPrompt := fmt.Sprintf(
		"You are a JSON extractor for bank forms. Given the OCR text from a scanned image, "+
			"output ONLY valid JSON matching the correct schema, using null for blanks.\n\n"+
			"%s\n\nNow extract JSON from this OCR text:\n%s",
		documentExamples, rawText,
	)
	extracted, err := c.generate(ctx, c.flashModel, []*genai.Part{genai.NewPartFromText(schemaPrompt)}, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "document extraction pass failed")
	}

	return buildDocumentResult(rawText, extracted), nil
}

// buildDocumentResult cleans the extraction output and parses it where
// possible, falling back to the raw string per the display contract
func buildDocumentResult(rawText, extracted string) *model.DocumentResult {
	cleaned := CleanJSONString(extracted)

	result := &model.DocumentResult{
		DocumentType:  "unknown",
		RawText:       rawText,
		ExtractedJSON: cleaned,
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return result
	}

	result.Extracted = json.RawMessage(cleaned)
	if dt, ok := parsed["document_type"].(string); ok && dt != "" {
		result.DocumentType = dt
	}
	return result
}
