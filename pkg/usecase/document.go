package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/domain/types"
	"github.com/ccops-lab/caseflow/pkg/service/gemini"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

// DocumentUseCase extracts structured data from scanned bank forms.
type DocumentUseCase struct {
	repo   interfaces.Repository
	gemini gemini.Service
}

func NewDocumentUseCase(repo interfaces.Repository, geminiSvc gemini.Service) *DocumentUseCase {
	return &DocumentUseCase{
		repo:   repo,
		gemini: geminiSvc,
	}
}

// Process runs OCR and structured extraction over an uploaded document image.
func (uc *DocumentUseCase) Process(ctx context.Context, image []byte, filename, contentType string) (*model.DocumentResult, error) {
	if uc.gemini == nil {
		return nil, goerr.Wrap(ErrServiceNotConfigured, "document processing requires a Gemini API key")
	}

	logger := logging.From(ctx)
	logger.Info("processing document", "filename", filename, "contentType", contentType, "size", len(image))

	result, err := uc.gemini.ExtractDocument(ctx, image, contentType)
	if err != nil {
		return nil, goerr.Wrap(err, "document extraction failed",
			goerr.V("filename", filename),
		)
	}

	uc.saveRecord(ctx, filename, int64(len(image)), result)

	return result, nil
}

func (uc *DocumentUseCase) saveRecord(ctx context.Context, input string, size int64, result *model.DocumentResult) {
	data, err := json.Marshal(result)
	if err != nil {
		logging.From(ctx).Error("failed to marshal document result", "error", err.Error())
		return
	}

	if _, err := uc.repo.Record().Create(ctx, &model.ProcessingRecord{
		Kind:      types.RecordKindDocument,
		Input:     input,
		SizeBytes: size,
		Result:    data,
	}); err != nil {
		logging.From(ctx).Error("failed to save processing record", "error", err.Error())
	}
}
