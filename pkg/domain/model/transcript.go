package model

// TranscriptResult is the outcome of transcribing and translating one
// audio file
type TranscriptResult struct {
	Transcription string          `json:"transcription"`
	Translation   string          `json:"translation"`
	Insights      *InsightPayload `json:"insights,omitempty"`
}

// SpeakerSegment is one attributed utterance in a diarized conversation
type SpeakerSegment struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time,omitempty"`
	EndTime   float64 `json:"end_time,omitempty"`
}

// DiarizationResult partitions an audio transcript into segments
// attributed to distinct speakers
type DiarizationResult struct {
	Speakers     []SpeakerSegment `json:"speakers"`
	Summary      string           `json:"summary,omitempty"`
	SpeakerCount int              `json:"speaker_count,omitempty"`
}

// DistinctSpeakers returns the number of distinct speaker labels in the
// segments
func (r *DiarizationResult) DistinctSpeakers() int {
	seen := make(map[string]struct{}, len(r.Speakers))
	for _, s := range r.Speakers {
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}
