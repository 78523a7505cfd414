package types

import "fmt"

// PriorityCategory represents how urgently a customer message needs handling
type PriorityCategory string

const (
	PriorityHigh   PriorityCategory = "High"
	PriorityMedium PriorityCategory = "Medium"
	PriorityLow    PriorityCategory = "Low"
)

// AllPriorityCategories returns all valid priority categories
func AllPriorityCategories() []PriorityCategory {
	return []PriorityCategory{
		PriorityHigh,
		PriorityMedium,
		PriorityLow,
	}
}

// IsValid checks if the priority category is valid
func (p PriorityCategory) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority category
func (p PriorityCategory) String() string {
	return string(p)
}

// ParsePriorityCategory parses a string into a PriorityCategory
func ParsePriorityCategory(s string) (PriorityCategory, error) {
	category := PriorityCategory(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid priority category: %s", s)
	}
	return category, nil
}
