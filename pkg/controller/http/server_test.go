package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	httpctrl "github.com/ccops-lab/caseflow/pkg/controller/http"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/repository/memory"
	"github.com/ccops-lab/caseflow/pkg/usecase"
)

// ----- mock gollem LLM client -----

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"test response"}}, nil
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

func insightLLMClient() gollem.LLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					var prompt string
					for _, in := range input {
						if txt, ok := in.(gollem.Text); ok {
							prompt += string(txt)
						}
					}
					switch {
					case strings.Contains(prompt, "TRANSACTION TYPE DEFINITION"):
						return &gollem.Response{Texts: []string{"Request"}}, nil
					case strings.Contains(prompt, "services/products offered by the bank"):
						return &gollem.Response{Texts: []string{"Deposits"}}, nil
					case strings.Contains(prompt, "PRIORITY DEFINITIONS"):
						return &gollem.Response{Texts: []string{`{"priority_category":"Medium","priority_reason":"Account opening interest."}`}}, nil
					case strings.Contains(prompt, "SENTIMENT DEFINITIONS"):
						return &gollem.Response{Texts: []string{`{"sentiment_category":"Positive","sentiment_reasoning":"Customer shows interest.","sentiment_distribution":[]}`}}, nil
					case strings.Contains(prompt, "dialogue analyst"):
						return &gollem.Response{Texts: []string{`{"dialogue_history":[]}`}}, nil
					case strings.Contains(prompt, "Summarize the following message"):
						return &gollem.Response{Texts: []string{"Customer wants to open a savings account."}}, nil
					}
					return &gollem.Response{Texts: []string{"savings, account, open"}}, nil
				},
			}, nil
		},
	}
}

// ----- stub provider services -----

type stubGemini struct {
	diarizeFn func(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error)
	extractFn func(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error)
}

func (s *stubGemini) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return "magandang hapon", nil
}

func (s *stubGemini) TranslateText(ctx context.Context, text string) (string, error) {
	return "good afternoon", nil
}

func (s *stubGemini) Diarize(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error) {
	if s.diarizeFn != nil {
		return s.diarizeFn(ctx, audio, mimeType)
	}
	return &model.DiarizationResult{
		Speakers: []model.SpeakerSegment{
			{Speaker: "Speaker 1", Text: "Good afternoon, how can I help?"},
			{Speaker: "Speaker 2", Text: "My card was declined."},
		},
		SpeakerCount: 2,
	}, nil
}

func (s *stubGemini) ExtractDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentResult, error) {
	if s.extractFn != nil {
		return s.extractFn(ctx, image, mimeType)
	}
	return &model.DocumentResult{
		DocumentType:  "withdrawal_slip",
		RawText:       "Amount: 5000",
		ExtractedJSON: `{"document_type":"withdrawal_slip"}`,
	}, nil
}

type stubWhisper struct{}

func (s *stubWhisper) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return "gusto ko pong magbukas ng account", nil
}

func (s *stubWhisper) Translate(ctx context.Context, audio []byte, filename string) (string, error) {
	return "I want to open an account", nil
}

func newTestServer(opts ...httpctrl.Options) *httpctrl.Server {
	uc := usecase.New(memory.New(),
		usecase.WithLLMClient(insightLLMClient()),
		usecase.WithGemini(&stubGemini{}),
		usecase.WithWhisper(&stubWhisper{}),
	)
	return httpctrl.New(uc, opts...)
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	gt.NoError(t, err).Required()
	_, err = part.Write(data)
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	return &buf, mw.FormDataContentType()
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	gt.NoError(t, json.NewDecoder(body).Decode(&m)).Required()
	return m
}

func fakeAudio(size int) []byte {
	audio := make([]byte, size)
	copy(audio, []byte("RIFF\x00\x00\x00\x00WAVE"))
	return audio
}

func TestHealth(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["status"]).Equal("healthy")
}

func TestTextEndpoint(t *testing.T) {
	srv := newTestServer()

	reqBody := `{"text":"Hello, I want to open a savings account."}`
	req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["case_transaction_type"]).Equal("Request")
	gt.Value(t, body["case_type"]).Equal("Deposits")

	priority := gt.Cast[map[string]any](t, body["case_priority_level"])
	gt.Value(t, priority["priority_category"]).Equal("Medium")
}

func TestTextEndpointBlankText(t *testing.T) {
	srv := newTestServer()

	for _, reqBody := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		body := decodeBody(t, rec.Body)
		gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "empty")).Equal(true)
	}
}

func TestTextEndpointInvalidJSON(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["detail"]).NotNil()
}

func TestProcessDocument(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "document", "slip.png", "image/png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/image/process-document", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["document_type"]).Equal("withdrawal_slip")
	gt.Value(t, body["raw_text"]).Equal("Amount: 5000")
}

func TestProcessDocumentRejectsNonImage(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "document", "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/image/process-document", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	body := decodeBody(t, rec.Body)
	gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "unsupported file type")).Equal(true)
}

func TestProcessDocumentTooLarge(t *testing.T) {
	srv := newTestServer(httpctrl.WithMaxImageSize(1024))

	buf, contentType := multipartBody(t, "document", "big.png", "image/png", make([]byte, 64*1024))
	req := httptest.NewRequest(http.MethodPost, "/image/process-document", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	body := decodeBody(t, rec.Body)
	gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "too large")).Equal(true)
}

func TestAudioWhisper(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "audio", "call.wav", "audio/wav", fakeAudio(4096))
	req := httptest.NewRequest(http.MethodPost, "/audio/whisper", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["transcription"]).Equal("gusto ko pong magbukas ng account")
	gt.Value(t, body["translation"]).Equal("I want to open an account")

	insights := gt.Cast[map[string]any](t, body["insights"])
	gt.Value(t, insights["case_type"]).Equal("Deposits")
}

func TestAudioGemini(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "audio", "call.mp3", "audio/mpeg", fakeAudio(4096))
	req := httptest.NewRequest(http.MethodPost, "/audio/gemini", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	gt.Value(t, body["transcription"]).Equal("magandang hapon")
	gt.Value(t, body["translation"]).Equal("good afternoon")
}

func TestAudioRejectsNonAudio(t *testing.T) {
	srv := newTestServer()

	for _, path := range []string{"/audio/whisper", "/audio/gemini", "/audio/diarization"} {
		buf, contentType := multipartBody(t, "audio", "pic.png", "image/png", fakeAudio(4096))
		req := httptest.NewRequest(http.MethodPost, path, buf)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		body := decodeBody(t, rec.Body)
		gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "valid audio file")).Equal(true)
	}
}

func TestAudioDiarization(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "audio", "meeting.wav", "audio/wav", fakeAudio(4096))
	req := httptest.NewRequest(http.MethodPost, "/audio/diarization", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec.Body)
	speakers := gt.Cast[[]any](t, body["speakers"])
	gt.Array(t, speakers).Length(2)
	gt.Value(t, body["speaker_count"]).Equal(float64(2))
}

func TestAudioDiarizationTooSmall(t *testing.T) {
	srv := newTestServer()

	buf, contentType := multipartBody(t, "audio", "tiny.wav", "audio/wav", fakeAudio(100))
	req := httptest.NewRequest(http.MethodPost, "/audio/diarization", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	body := decodeBody(t, rec.Body)
	gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "too small")).Equal(true)
}

func TestAudioDiarizationUpstreamFailure(t *testing.T) {
	uc := usecase.New(memory.New(),
		usecase.WithLLMClient(insightLLMClient()),
		usecase.WithGemini(&stubGemini{
			diarizeFn: func(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error) {
				return nil, errors.New("model overloaded")
			},
		}),
		usecase.WithWhisper(&stubWhisper{}),
	)
	srv := httpctrl.New(uc)

	buf, contentType := multipartBody(t, "audio", "meeting.wav", "audio/wav", fakeAudio(4096))
	req := httptest.NewRequest(http.MethodPost, "/audio/diarization", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
	body := decodeBody(t, rec.Body)
	gt.Value(t, strings.Contains(gt.Cast[string](t, body["detail"]), "diarization failed")).Equal(true)
}

func TestRecordsEndpoint(t *testing.T) {
	srv := newTestServer()

	// Process a text first so a record exists
	req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader(`{"text":"open an account"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records", nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	body := decodeBody(t, rec.Body)
	records := gt.Cast[[]any](t, body["records"])
	gt.Array(t, records).Length(1)

	first := gt.Cast[map[string]any](t, records[0])
	gt.Value(t, first["kind"]).Equal("text")

	// Fetch the single record by ID
	id := gt.Cast[string](t, first["id"])
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records/"+id, nil))
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestRecordsInvalidLimit(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records?limit=zero", nil))
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestRecordNotFound(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records/"+model.NewRecordID().String(), nil))
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestRequestTimeoutPropagates(t *testing.T) {
	uc := usecase.New(memory.New(),
		usecase.WithLLMClient(insightLLMClient()),
		usecase.WithGemini(&stubGemini{
			diarizeFn: func(ctx context.Context, audio []byte, mimeType string) (*model.DiarizationResult, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}),
		usecase.WithWhisper(&stubWhisper{}),
	)
	srv := httpctrl.New(uc, httpctrl.WithDiarizeTimeout(50*time.Millisecond))

	buf, contentType := multipartBody(t, "audio", "slow.wav", "audio/wav", fakeAudio(4096))
	req := httptest.NewRequest(http.MethodPost, "/audio/diarization", buf)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
}
