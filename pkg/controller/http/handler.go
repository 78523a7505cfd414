package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/domain/model"
	"github.com/ccops-lab/caseflow/pkg/repository/firestore"
	"github.com/ccops-lab/caseflow/pkg/repository/memory"
	"github.com/ccops-lab/caseflow/pkg/usecase"
	"github.com/ccops-lab/caseflow/pkg/utils/errutil"
)

func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, err := readUpload(r, "document", s.maxImageSize)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := up.requireImage(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Document.Process(ctx, up.Data, up.Filename, up.ContentType)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "processing failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleAudioWhisper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, err := readUpload(r, "audio", s.maxAudioSize)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := up.requireAudio(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Audio.TranscribeWhisper(ctx, up.Data, up.Filename)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "audio processing failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleAudioGemini(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, err := readUpload(r, "audio", s.maxAudioSize)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := up.requireAudio(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Audio.TranscribeGemini(ctx, up.Data, up.Filename)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "audio processing with gemini failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleAudioDiarization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	up, err := readUpload(r, "audio", s.maxAudioSize)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := up.requireAudio(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.uc.Audio.Diarize(ctx, up.Data, up.Filename)
	if err != nil {
		if errors.Is(err, usecase.ErrAudioTooSmall) {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "audio diarization failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		errutil.HandleHTTP(ctx, w, usecase.ErrEmptyText, http.StatusBadRequest)
		return
	}

	payload, err := s.uc.Insight.ProcessText(ctx, req.Text)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyText) {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "text processing failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, payload)
}

const defaultRecordLimit = 50

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultRecordLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errutil.HandleHTTP(ctx, w, goerr.New("limit must be a positive integer",
				goerr.V("limit", v),
			), http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.uc.Record.List(ctx, limit)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list records"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"records": records,
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := model.RecordID(chi.URLParam(r, "recordID"))

	rec, err := s.uc.Record.Get(ctx, id)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to get record"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, rec)
}
