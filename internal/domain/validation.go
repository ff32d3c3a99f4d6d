package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Form field names, in the order the form shows them
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
)

var (
	ErrMissing = errors.New("missing")
	ErrInvalid = errors.New("invalid")
)

// ErrorKind tags why a field failed validation
type ErrorKind int

const (
	KindMissing ErrorKind = iota + 1
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// FieldError is the first failing rule for a single field
type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match ErrMissing and ErrInvalid with errors.Is
func (e *FieldError) Unwrap() error {
	switch e.Kind {
	case KindMissing:
		return ErrMissing
	case KindInvalid:
		return ErrInvalid
	default:
		return nil
	}
}

// ValidationError collects the field errors of one submission
type ValidationError struct {
	Fields map[string]*FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name].Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages maps each failing field to its user-facing message
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, fe := range e.Fields {
		out[name] = fe.Message
	}
	return out
}

func (e *ValidationError) add(field string, kind ErrorKind, message string) {
	e.Fields[field] = &FieldError{Field: field, Kind: kind, Message: message}
}

// SubmissionDraft holds the trimmed raw values of one form submission
type SubmissionDraft struct {
	Name        string
	Description string
	Price       string
	Category    string
}

// trimCutset is the whitespace stripped from submitted values: space, tab,
// newline, carriage return, NUL and vertical tab. Other Unicode spaces are
// kept as content.
const trimCutset = " \t\n\r\x00\x0B"

// NewSubmissionDraft trims surrounding whitespace from every value
func NewSubmissionDraft(name, description, price, category string) SubmissionDraft {
	return SubmissionDraft{
		Name:        strings.Trim(name, trimCutset),
		Description: strings.Trim(description, trimCutset),
		Price:       strings.Trim(price, trimCutset),
		Category:    strings.Trim(category, trimCutset),
	}
}

// Validate checks every field of the draft. It returns the product fields
// when all rules pass, otherwise a *ValidationError with one entry per
// failing field.
func Validate(draft SubmissionDraft, categories *Categories) (ProductFields, error) {
	d := NewSubmissionDraft(draft.Name, draft.Description, draft.Price, draft.Category)
	verr := &ValidationError{Fields: make(map[string]*FieldError)}

	if d.Name == "" {
		verr.add(FieldName, KindMissing, "Product name is required.")
	}
	if d.Description == "" {
		verr.add(FieldDescription, KindMissing, "Description is required.")
	}

	price, ok := parsePrice(d.Price)
	if !ok {
		verr.add(FieldPrice, KindInvalid, "Valid price is required.")
	}

	if d.Category == "" || !categories.Contains(d.Category) {
		verr.add(FieldCategory, KindInvalid, "Please select a valid category.")
	}

	if len(verr.Fields) > 0 {
		return ProductFields{}, verr
	}

	return ProductFields{
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
	}, nil
}

// A price must be a finite, non-zero float64: its decimal order of
// magnitude stays within [minPriceOrder, maxPriceOrder].
const (
	maxPriceInputLen = 64
	minPriceOrder    = -324
	maxPriceOrder    = 308
)

// parsePrice accepts plain decimal notation with an optional sign and
// exponent and requires a strictly positive value.
func parsePrice(raw string) (decimal.Decimal, bool) {
	if raw == "" || len(raw) > maxPriceInputLen {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, false
	}
	order := int64(price.NumDigits()) + int64(price.Exponent()) - 1
	if order < minPriceOrder || order > maxPriceOrder {
		return decimal.Decimal{}, false
	}
	return price, true
}
