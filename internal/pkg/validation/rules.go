package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Name pattern - letters, spaces, hyphens, apostrophes and dots
	NamePattern = `^[a-zA-Z\s\-'\.]+$`

	// Phone pattern - 10 to 15 digits after stripping separators
	PhonePattern = `^\d{10,15}$`

	// Country pattern - ISO 3166-1 alpha-3
	CountryPattern = `^[A-Za-z]{3}$`

	// Grade pattern - short alphanumeric labels like "12", "A-level", "IB2"
	GradePattern = `^[a-zA-Z0-9\s\-]{1,20}$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email   *regexp.Regexp
	Name    *regexp.Regexp
	Phone   *regexp.Regexp
	Country *regexp.Regexp
	Grade   *regexp.Regexp
}{
	Email:   regexp.MustCompile(EmailPattern),
	Name:    regexp.MustCompile(NamePattern),
	Phone:   regexp.MustCompile(PhonePattern),
	Country: regexp.MustCompile(CountryPattern),
	Grade:   regexp.MustCompile(GradePattern),
}

// NormalizePhone strips common separators before the digit-count check
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}
