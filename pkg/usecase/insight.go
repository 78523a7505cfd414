package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/domain/types"
	"github.com/ccops-lab/caseflow/pkg/service/gemini"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

//go:embed prompt/transaction_type.md
var transactionTypePromptTmpl string

//go:embed prompt/product_type.md
var productTypePromptTmpl string

//go:embed prompt/priority.md
var priorityPromptTmpl string

//go:embed prompt/sentiment.md
var sentimentPromptTmpl string

//go:embed prompt/summary.md
var summaryPromptTmpl string

//go:embed prompt/keywords.md
var keywordsPromptTmpl string

//go:embed prompt/dialogue_history.md
var dialogueHistoryPromptTmpl string

var (
	transactionTypePrompt = template.Must(template.New("transaction_type").Parse(transactionTypePromptTmpl))
	productTypePrompt     = template.Must(template.New("product_type").Parse(productTypePromptTmpl))
	priorityPrompt        = template.Must(template.New("priority").Parse(priorityPromptTmpl))
	sentimentPrompt       = template.Must(template.New("sentiment").Parse(sentimentPromptTmpl))
	summaryPrompt         = template.Must(template.New("summary").Parse(summaryPromptTmpl))
	keywordsPrompt        = template.Must(template.New("keywords").Parse(keywordsPromptTmpl))
	dialogueHistoryPrompt = template.Must(template.New("dialogue_history").Parse(dialogueHistoryPromptTmpl))
)

// ErrEmptyText is returned when the text to analyze is blank.
var ErrEmptyText = goerr.New("text cannot be empty or contain only whitespace")

// InsightUseCase runs the insight extraction chains over customer messages.
type InsightUseCase struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
}

func NewInsightUseCase(repo interfaces.Repository, llmClient gollem.LLMClient) *InsightUseCase {
	return &InsightUseCase{
		repo:      repo,
		llmClient: llmClient,
	}
}

type promptData struct {
	Text string
}

func renderPrompt(tmpl *template.Template, text string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Text: text}); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt template",
			goerr.V("template", tmpl.Name()),
		)
	}
	return buf.String(), nil
}

// generateLabel runs a plain text completion and returns the trimmed result.
func (uc *InsightUseCase) generateLabel(ctx context.Context, tmpl *template.Template, text string) (string, error) {
	prompt, err := renderPrompt(tmpl, text)
	if err != nil {
		return "", err
	}

	session, err := uc.llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create session",
			goerr.V("template", tmpl.Name()),
		)
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content",
			goerr.V("template", tmpl.Name()),
		)
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("model returned empty response",
			goerr.V("template", tmpl.Name()),
		)
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}

// generateJSON runs a completion with a JSON response schema and decodes the
// result into out.
func (uc *InsightUseCase) generateJSON(ctx context.Context, tmpl *template.Template, text string, schema *gollem.Parameter, out any) error {
	prompt, err := renderPrompt(tmpl, text)
	if err != nil {
		return err
	}

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create session",
			goerr.V("template", tmpl.Name()),
		)
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return goerr.Wrap(err, "failed to generate content",
			goerr.V("template", tmpl.Name()),
		)
	}
	if len(resp.Texts) == 0 {
		return goerr.New("model returned empty response",
			goerr.V("template", tmpl.Name()),
		)
	}

	raw := gemini.CleanJSONString(resp.Texts[0])
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return goerr.Wrap(err, "failed to parse model response as JSON",
			goerr.V("template", tmpl.Name()),
			goerr.V("response", resp.Texts[0]),
		)
	}

	return nil
}

func prioritySchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "PriorityLevel",
		Description: "Urgency assessment of a customer message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"priority_category": {
				Type:        gollem.TypeString,
				Description: "One of 'High', 'Medium', or 'Low'. Describes how urgent a message needs to be addressed.",
				Enum:        []string{"High", "Medium", "Low"},
				Required:    true,
			},
			"priority_reason": {
				Type:        gollem.TypeString,
				Description: "An explanation of why the priority level of a message is the way it is.",
				Required:    true,
			},
		},
	}
}

func sentimentSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "SentimentAnalysis",
		Description: "Sentiment assessment of a customer message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"sentiment_category": {
				Type:        gollem.TypeString,
				Description: "One of 'Negative', 'Neutral', or 'Positive'. The sentiment demonstrated within the message.",
				Enum:        []string{"Negative", "Neutral", "Positive"},
				Required:    true,
			},
			"sentiment_reasoning": {
				Type:        gollem.TypeString,
				Description: "A one liner that depicts main reason why the text was categorized as a certain sentiment. Use proper case.",
				Required:    true,
			},
			"sentiment_distribution": {
				Type:        gollem.TypeArray,
				Description: "Confidence distribution across the three sentiments. The confidence scores must sum to 1.0.",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"sentiment_tag": {
							Type:        gollem.TypeString,
							Description: "The sentiment tag being assessed.",
							Required:    true,
						},
						"sentiment_confidence_score": {
							Type:        gollem.TypeNumber,
							Description: "Confidence for this sentiment, between 0.0 and 1.0 with two decimal points.",
							Required:    true,
						},
						"emotional_indicators": {
							Type:        gollem.TypeArray,
							Description: "Bigrams or trigrams that best display the particular sentiment. Lowercase.",
							Items: &gollem.Parameter{
								Type: gollem.TypeString,
							},
						},
					},
				},
			},
		},
	}
}

func dialogueHistorySchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "DialogueHistory",
		Description: "Structured chat history of a conversation",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"dialogue_history": {
				Type:        gollem.TypeArray,
				Description: "Turns of the conversation in order.",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"turn_id": {
							Type:        gollem.TypeInteger,
							Description: "Order of the message in the conversation, starting from 1.",
							Required:    true,
						},
						"speaker": {
							Type:        gollem.TypeString,
							Description: "One of 'Customer', 'Bank Agent', or 'Chatbot'.",
							Required:    true,
						},
						"text": {
							Type:        gollem.TypeString,
							Description: "The message sent within the turn of the speaker.",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// Extract runs all insight chains concurrently and assembles the payload.
func (uc *InsightUseCase) Extract(ctx context.Context, text string) (*model.InsightPayload, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if uc.llmClient == nil {
		return nil, goerr.Wrap(ErrServiceNotConfigured, "text insight chains require a Gemini project")
	}

	logger := logging.From(ctx)
	payload := &model.InsightPayload{}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		label, err := uc.generateLabel(ctx, transactionTypePrompt, text)
		if err != nil {
			return goerr.Wrap(err, "transaction type classification failed")
		}
		if _, err := types.ParseTransactionType(label); err != nil {
			logger.Warn("unrecognized transaction type label", "label", label)
		}
		payload.CaseTransactionType = label
		return nil
	})

	eg.Go(func() error {
		label, err := uc.generateLabel(ctx, productTypePrompt, text)
		if err != nil {
			return goerr.Wrap(err, "product type classification failed")
		}
		if _, err := types.ParseProductType(label); err != nil {
			logger.Warn("unrecognized product type label", "label", label)
		}
		payload.CaseType = label
		return nil
	})

	eg.Go(func() error {
		var priority model.PriorityLevel
		if err := uc.generateJSON(ctx, priorityPrompt, text, prioritySchema(), &priority); err != nil {
			return goerr.Wrap(err, "priority classification failed")
		}
		payload.CasePriorityLevel = model.NewFlex(priority)
		return nil
	})

	eg.Go(func() error {
		var sentiment model.SentimentAnalysis
		if err := uc.generateJSON(ctx, sentimentPrompt, text, sentimentSchema(), &sentiment); err != nil {
			return goerr.Wrap(err, "sentiment analysis failed")
		}
		payload.Sentiment = model.NewFlex(sentiment)
		return nil
	})

	eg.Go(func() error {
		summary, err := uc.generateLabel(ctx, summaryPrompt, text)
		if err != nil {
			return goerr.Wrap(err, "summarization failed")
		}
		payload.Summary = summary
		return nil
	})

	eg.Go(func() error {
		keywords, err := uc.generateLabel(ctx, keywordsPrompt, text)
		if err != nil {
			return goerr.Wrap(err, "keyword extraction failed")
		}
		payload.Keywords = keywords
		return nil
	})

	eg.Go(func() error {
		var history model.DialogueHistory
		if err := uc.generateJSON(ctx, dialogueHistoryPrompt, text, dialogueHistorySchema(), &history); err != nil {
			return goerr.Wrap(err, "dialogue history extraction failed")
		}
		payload.DialogueHistory = model.NewFlex(history)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return payload, nil
}

// ProcessText extracts insights from a customer message and records the run.
func (uc *InsightUseCase) ProcessText(ctx context.Context, text string) (*model.InsightPayload, error) {
	payload, err := uc.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal insight payload")
	}

	if _, err := uc.repo.Record().Create(ctx, &model.ProcessingRecord{
		Kind:      types.RecordKindText,
		Input:     truncateInput(text),
		SizeBytes: int64(len(text)),
		Result:    result,
	}); err != nil {
		logging.From(ctx).Error("failed to save processing record", "error", err.Error())
	}

	return payload, nil
}

const maxRecordInputLen = 512

func truncateInput(s string) string {
	if len(s) <= maxRecordInputLen {
		return s
	}
	return s[:maxRecordInputLen]
}
