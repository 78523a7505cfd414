package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/domain/interfaces"
	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/domain/types"
	"github.com/ccops-lab/caseflow/pkg/service/gemini"
	"github.com/ccops-lab/caseflow/pkg/service/whisper"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

// ErrAudioTooSmall is returned when the upload is too small to be real audio.
var ErrAudioTooSmall = goerr.New("file appears to be empty or too small to process")

const minAudioSize = 1000

// AudioUseCase handles transcription, translation and diarization of call
// recordings.
type AudioUseCase struct {
	repo    interfaces.Repository
	whisper whisper.Service
	gemini  gemini.Service
	insight *InsightUseCase
}

func NewAudioUseCase(repo interfaces.Repository, whisperSvc whisper.Service, geminiSvc gemini.Service, insight *InsightUseCase) *AudioUseCase {
	return &AudioUseCase{
		repo:    repo,
		whisper: whisperSvc,
		gemini:  geminiSvc,
		insight: insight,
	}
}

// TranscribeWhisper transcribes and translates audio with Whisper, then runs
// the insight chains over the English translation.
func (uc *AudioUseCase) TranscribeWhisper(ctx context.Context, audio []byte, filename string) (*model.TranscriptResult, error) {
	if uc.whisper == nil {
		return nil, goerr.Wrap(ErrServiceNotConfigured, "whisper transcription requires an OpenAI API key")
	}

	logger := logging.From(ctx)

	transcription, err := uc.whisper.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, goerr.Wrap(err, "whisper transcription failed",
			goerr.V("filename", filename),
		)
	}

	translation, err := uc.whisper.Translate(ctx, audio, filename)
	if err != nil {
		return nil, goerr.Wrap(err, "whisper translation failed",
			goerr.V("filename", filename),
		)
	}

	result := &model.TranscriptResult{
		Transcription: transcription,
		Translation:   translation,
	}

	if translation != "" {
		insights, err := uc.insight.Extract(ctx, translation)
		if err != nil {
			logger.Warn("insight extraction on transcript failed", "error", err.Error())
		} else {
			result.Insights = insights
		}
	}

	uc.saveRecord(ctx, types.RecordKindAudioWhisper, filename, int64(len(audio)), result)

	return result, nil
}

// TranscribeGemini transcribes audio with the Gemini pro model and translates
// the transcription to English.
func (uc *AudioUseCase) TranscribeGemini(ctx context.Context, audio []byte, filename string) (*model.TranscriptResult, error) {
	if uc.gemini == nil {
		return nil, goerr.Wrap(ErrServiceNotConfigured, "audio processing requires a Gemini API key")
	}

	logger := logging.From(ctx)

	mimeType := gemini.DetectAudioMIME(audio)
	if dur := gemini.WAVDuration(audio); dur > 0 {
		logger.Info("processing audio", "filename", filename, "mimeType", mimeType, "durationSec", dur)
	} else {
		logger.Info("processing audio", "filename", filename, "mimeType", mimeType)
	}

	transcription, err := uc.gemini.TranscribeAudio(ctx, audio, mimeType)
	if err != nil {
		return nil, goerr.Wrap(err, "gemini transcription failed",
			goerr.V("filename", filename),
		)
	}

	translation, err := uc.gemini.TranslateText(ctx, transcription)
	if err != nil {
		return nil, goerr.Wrap(err, "gemini translation failed",
			goerr.V("filename", filename),
		)
	}

	result := &model.TranscriptResult{
		Transcription: transcription,
		Translation:   translation,
	}

	uc.saveRecord(ctx, types.RecordKindAudioGemini, filename, int64(len(audio)), result)

	return result, nil
}

// Diarize identifies speakers and their segments in a call recording.
func (uc *AudioUseCase) Diarize(ctx context.Context, audio []byte, filename string) (*model.DiarizationResult, error) {
	if len(audio) < minAudioSize {
		return nil, ErrAudioTooSmall
	}
	if uc.gemini == nil {
		return nil, goerr.Wrap(ErrServiceNotConfigured, "diarization requires a Gemini API key")
	}

	mimeType := gemini.DetectAudioMIME(audio)

	result, err := uc.gemini.Diarize(ctx, audio, mimeType)
	if err != nil {
		return nil, goerr.Wrap(err, "diarization failed",
			goerr.V("filename", filename),
			goerr.V("mimeType", mimeType),
		)
	}

	uc.saveRecord(ctx, types.RecordKindDiarization, filename, int64(len(audio)), result)

	return result, nil
}

func (uc *AudioUseCase) saveRecord(ctx context.Context, kind types.RecordKind, input string, size int64, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		logging.From(ctx).Error("failed to marshal processing result", "error", err.Error())
		return
	}

	if _, err := uc.repo.Record().Create(ctx, &model.ProcessingRecord{
		Kind:      kind,
		Input:     input,
		SizeBytes: size,
		Result:    data,
	}); err != nil {
		logging.From(ctx).Error("failed to save processing record", "kind", kind, "error", err.Error())
	}
}
