package usecase_test

import (
	"context"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{"test response"},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func promptText(input ...gollem.Input) string {
	var sb strings.Builder
	for _, in := range input {
		if txt, ok := in.(gollem.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// newInsightLLMClient returns a mock client that answers each insight chain
// based on distinctive phrases in the prompt.
func newInsightLLMClient() *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					prompt := promptText(input...)
					switch {
					case strings.Contains(prompt, "TRANSACTION TYPE DEFINITION"):
						return &gollem.Response{Texts: []string{"Complaint"}}, nil
					case strings.Contains(prompt, "services/products offered by the bank"):
						return &gollem.Response{Texts: []string{"Credit Cards"}}, nil
					case strings.Contains(prompt, "PRIORITY DEFINITIONS"):
						return &gollem.Response{Texts: []string{`{"priority_category":"High","priority_reason":"Unauthorized charge requires immediate investigation."}`}}, nil
					case strings.Contains(prompt, "SENTIMENT DEFINITIONS"):
						return &gollem.Response{Texts: []string{`{"sentiment_category":"Negative","sentiment_reasoning":"The customer reports an unauthorized charge.","sentiment_distribution":[{"sentiment_tag":"Negative","sentiment_confidence_score":0.9,"emotional_indicators":["unauthorized charge"]},{"sentiment_tag":"Neutral","sentiment_confidence_score":0.08,"emotional_indicators":[]},{"sentiment_tag":"Positive","sentiment_confidence_score":0.02,"emotional_indicators":[]}]}`}}, nil
					case strings.Contains(prompt, "dialogue analyst"):
						return &gollem.Response{Texts: []string{`{"dialogue_history":[{"turn_id":1,"speaker":"Customer","text":"There is an unauthorized charge on my credit card."}]}`}}, nil
					case strings.Contains(prompt, "Summarize the following message"):
						return &gollem.Response{Texts: []string{"Customer reports an unauthorized credit card charge."}}, nil
					case strings.Contains(prompt, "comma-separated list"):
						return &gollem.Response{Texts: []string{"unauthorized, charge, credit card, dispute"}}, nil
					}
					return &gollem.Response{Texts: []string{"Unknown"}}, nil
				},
			}, nil
		},
	}
}

// stubGeminiService is a canned gemini.Service for testing
type stubGeminiService struct {
	transcribeFn func(ctx context.Context, audio []byte, mimeType string) (string, error)
	translateFn  func(ctx context.Context, text string) (string, error)
	diarizeFn    func(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error)
	extractFn    func(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error)
}

func (s *stubGeminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.transcribeFn != nil {
		return s.transcribeFn(ctx, audio, mimeType)
	}
	return "magandang umaga po", nil
}

func (s *stubGeminiService) TranslateText(ctx context.Context, text string) (string, error) {
	if s.translateFn != nil {
		return s.translateFn(ctx, text)
	}
	return "good morning", nil
}

func (s *stubGeminiService) Diarize(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error) {
	if s.diarizeFn != nil {
		return s.diarizeFn(ctx, audio, mimeType)
	}
	return &model.DiarizationResult{
		Speakers: []model.SpeakerSegment{
			{Speaker: "Speaker 1", Text: "Hello, how can I help you?"},
			{Speaker: "Speaker 2", Text: "I lost my card."},
		},
		SpeakerCount: 2,
	}, nil
}

func (s *stubGeminiService) ExtractDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error) {
	if s.extractFn != nil {
		return s.extractFn(ctx, image, mimeType)
	}
	return &model.DocumentResult{
		DocumentType:  "deposit_slip",
		RawText:       "Account Number: 1234",
		ExtractedJSON: `{"document_type":"deposit_slip"}`,
	}, nil
}

// stubWhisperService is a canned whisper.Service for testing
type stubWhisperService struct {
	transcribeFn func(ctx context.Context, audio []byte, filename string) (string, error)
	translateFn  func(ctx context.Context, audio []byte, filename string) (string, error)
}

func (s *stubWhisperService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if s.transcribeFn != nil {
		return s.transcribeFn(ctx, audio, filename)
	}
	return "nawala po ang credit card ko", nil
}

func (s *stubWhisperService) Translate(ctx context.Context, audio []byte, filename string) (string, error) {
	if s.translateFn != nil {
		return s.translateFn(ctx, audio, filename)
	}
	return "I lost my credit card", nil
}
