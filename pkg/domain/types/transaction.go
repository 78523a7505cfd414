package types

import "fmt"

// TransactionType classifies the intent of a customer message
type TransactionType string

const (
	TransactionRequest   TransactionType = "Request"
	TransactionInquiry   TransactionType = "Inquiry"
	TransactionComplaint TransactionType = "Complaint"
)

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionRequest,
		TransactionInquiry,
		TransactionComplaint,
	}
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionRequest, TransactionInquiry, TransactionComplaint:
		return true
	default:
		return false
	}
}

// String returns the string representation of the transaction type
func (t TransactionType) String() string {
	return string(t)
}

// ProductType classifies which bank product a customer message relates to
type ProductType string

const (
	ProductCreditCards ProductType = "Credit Cards"
	ProductDeposits    ProductType = "Deposits"
	ProductLoans       ProductType = "Loans"
)

// AllProductTypes returns all valid product types
func AllProductTypes() []ProductType {
	return []ProductType{
		ProductCreditCards,
		ProductDeposits,
		ProductLoans,
	}
}

// IsValid checks if the product type is valid
func (p ProductType) IsValid() bool {
	switch p {
	case ProductCreditCards, ProductDeposits, ProductLoans:
		return true
	default:
		return false
	}
}

// String returns the string representation of the product type
func (p ProductType) String() string {
	return string(p)
}

// ParseTransactionType parses a string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return t, nil
}

// ParseProductType parses a string into a ProductType
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid product type: %s", s)
	}
	return p, nil
}
