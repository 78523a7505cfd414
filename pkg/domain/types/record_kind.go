package types

import "fmt"

// RecordKind identifies which processing path produced a result record
type RecordKind string

const (
	RecordKindDocument     RecordKind = "document"
	RecordKindAudioWhisper RecordKind = "audio_whisper"
	RecordKindAudioGemini  RecordKind = "audio_gemini"
	RecordKindDiarization  RecordKind = "diarization"
	RecordKindText         RecordKind = "text"
)

// AllRecordKinds returns all valid record kinds
func AllRecordKinds() []RecordKind {
	return []RecordKind{
		RecordKindDocument,
		RecordKindAudioWhisper,
		RecordKindAudioGemini,
		RecordKindDiarization,
		RecordKindText,
	}
}

// IsValid checks if the record kind is valid
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordKindDocument,
		RecordKindAudioWhisper,
		RecordKindAudioGemini,
		RecordKindDiarization,
		RecordKindText:
		return true
	default:
		return false
	}
}

// String returns the string representation of the record kind
func (k RecordKind) String() string {
	return string(k)
}

// ParseRecordKind parses a string into a RecordKind
func ParseRecordKind(s string) (RecordKind, error) {
	kind := RecordKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid record kind: %s", s)
	}
	return kind, nil
}
