package model

import (
	"encoding/json"
)

// PriorityLevel is the structured form of the case_priority_level field
type PriorityLevel struct {
	PriorityCategory string `json:"priority_category"`
	PriorityReason   string `json:"priority_reason"`
}

// SentimentDistributionEntry is the per-label confidence breakdown of a
// sentiment analysis
type SentimentDistributionEntry struct {
	SentimentTag             string   `json:"sentiment_tag"`
	SentimentConfidenceScore float64  `json:"sentiment_confidence_score"`
	EmotionalIndicators      []string `json:"emotional_indicators"`
}

// SentimentAnalysis is the structured form of the sentiment field
type SentimentAnalysis struct {
	SentimentCategory     string                       `json:"sentiment_category"`
	SentimentReasoning    string                       `json:"sentiment_reasoning"`
	SentimentDistribution []SentimentDistributionEntry `json:"sentiment_distribution"`
}

// DialogueTurn is one turn of a customer conversation
type DialogueTurn struct {
	TurnID  int    `json:"turn_id"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// DialogueHistory is the structured form of the dialogue_history field
type DialogueHistory struct {
	DialogueHistory []DialogueTurn `json:"dialogue_history"`
}

// Flex holds a field value that may arrive either as a structured JSON
// object or as a JSON-encoded string of that object. Both shapes occur in
// the wild depending on which analysis chain produced the field, and each
// field is independently one or the other.
//
// When the value is a string that parses as T, both Raw and Parsed are
// kept. When it is a string that does not parse, only Raw is set and no
// error is raised; consumers must cope with either shape.
type Flex[T any] struct {
	Parsed *T
	Raw    string
}

// NewFlex wraps an already-structured value
func NewFlex[T any](v T) Flex[T] {
	return Flex[T]{Parsed: &v}
}

// NewFlexRaw wraps a raw string, attempting one parse pass into T
func NewFlexRaw[T any](raw string) Flex[T] {
	f := Flex[T]{Raw: raw}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		f.Parsed = &v
	}
	return f
}

// UnmarshalJSON accepts either the structured object or a JSON string
// wrapping it
func (f *Flex[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = NewFlexRaw[T](s)
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Parsed = &v
	f.Raw = ""
	return nil
}

// MarshalJSON always emits the normalized form when a parse succeeded,
// and falls back to the raw string otherwise
func (f Flex[T]) MarshalJSON() ([]byte, error) {
	if f.Parsed != nil {
		return json.Marshal(f.Parsed)
	}
	return json.Marshal(f.Raw)
}

// IsParsed reports whether the structured form is available
func (f Flex[T]) IsParsed() bool {
	return f.Parsed != nil
}

// InsightPayload is the full analysis result for one customer message.
// The three Flex fields tolerate both structured and stringified input;
// marshaling emits the normalized payload.
type InsightPayload struct {
	CaseType            string                  `json:"case_type"`
	CaseTransactionType string                  `json:"case_transaction_type"`
	CasePriorityLevel   Flex[PriorityLevel]     `json:"case_priority_level"`
	Sentiment           Flex[SentimentAnalysis] `json:"sentiment"`
	Summary             string                  `json:"summary"`
	Keywords            string                  `json:"keywords"`
	DialogueHistory     Flex[DialogueHistory]   `json:"dialogue_history"`
}
