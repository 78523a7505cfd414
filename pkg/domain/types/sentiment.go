package types

import "fmt"

// SentimentCategory represents the overall sentiment of a customer message
type SentimentCategory string

const (
	SentimentNegative SentimentCategory = "Negative"
	SentimentNeutral  SentimentCategory = "Neutral"
	SentimentPositive SentimentCategory = "Positive"
)

// AllSentimentCategories returns all valid sentiment categories
func AllSentimentCategories() []SentimentCategory {
	return []SentimentCategory{
		SentimentNegative,
		SentimentNeutral,
		SentimentPositive,
	}
}

// IsValid checks if the sentiment category is valid
func (s SentimentCategory) IsValid() bool {
	switch s {
	case SentimentNegative, SentimentNeutral, SentimentPositive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sentiment category
func (s SentimentCategory) String() string {
	return string(s)
}

// ParseSentimentCategory parses a string into a SentimentCategory
func ParseSentimentCategory(s string) (SentimentCategory, error) {
	category := SentimentCategory(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid sentiment category: %s", s)
	}
	return category, nil
}
