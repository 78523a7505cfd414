package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/service/gemini"
	"github.com/ccops-lab/caseflow/pkg/service/whisper"
)

type UseCases struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	gemini    gemini.Service
	whisper   whisper.Service

	Insight  *InsightUseCase
	Audio    *AudioUseCase
	Document *DocumentUseCase
	Record   *RecordUseCase
}

type Option func(*UseCases)

func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

func WithGemini(svc gemini.Service) Option {
	return func(uc *UseCases) {
		uc.gemini = svc
	}
}

func WithWhisper(svc whisper.Service) Option {
	return func(uc *UseCases) {
		uc.whisper = svc
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Insight = NewInsightUseCase(repo, uc.llmClient)
	uc.Audio = NewAudioUseCase(repo, uc.whisper, uc.gemini, uc.Insight)
	uc.Document = NewDocumentUseCase(repo, uc.gemini)
	uc.Record = NewRecordUseCase(repo)

	return uc
}
