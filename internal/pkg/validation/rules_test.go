package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+44 (123) 456-78901", "4412345678901"},
		{"555.123.4567", "5551234567"},
		{"  15551234567  ", "15551234567"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.input))
	}
}

func TestCompiledPatterns(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		assert.True(t, CompiledPatterns.Email.MatchString("ada@example.com"))
		assert.True(t, CompiledPatterns.Email.MatchString("ada.lovelace+tag@sub.example.co.uk"))
		assert.False(t, CompiledPatterns.Email.MatchString("not-an-address"))
		assert.False(t, CompiledPatterns.Email.MatchString("ada@example"))
	})

	t.Run("phone", func(t *testing.T) {
		assert.True(t, CompiledPatterns.Phone.MatchString("5551234567"))
		assert.False(t, CompiledPatterns.Phone.MatchString("123456789"), "nine digits is too short")
		assert.False(t, CompiledPatterns.Phone.MatchString("1234567890123456"), "sixteen digits is too long")
		assert.False(t, CompiledPatterns.Phone.MatchString("555-123-4567"), "separators must be stripped first")
	})

	t.Run("country", func(t *testing.T) {
		assert.True(t, CompiledPatterns.Country.MatchString("USA"))
		assert.True(t, CompiledPatterns.Country.MatchString("gbr"))
		assert.False(t, CompiledPatterns.Country.MatchString("US"))
		assert.False(t, CompiledPatterns.Country.MatchString("USAA"))
	})

	t.Run("name", func(t *testing.T) {
		assert.True(t, CompiledPatterns.Name.MatchString("Ada Lovelace"))
		assert.True(t, CompiledPatterns.Name.MatchString("O'Brien-Smith Jr."))
		assert.False(t, CompiledPatterns.Name.MatchString("Ada<script>"))
	})

	t.Run("grade", func(t *testing.T) {
		assert.True(t, CompiledPatterns.Grade.MatchString("12"))
		assert.True(t, CompiledPatterns.Grade.MatchString("A-level"))
		assert.False(t, CompiledPatterns.Grade.MatchString(""))
	})
}

func TestStringValidation(t *testing.T) {
	t.Run("required empty value fails", func(t *testing.T) {
		assert.False(t, NewStringValidation("").Validate())
	})

	t.Run("optional empty value passes", func(t *testing.T) {
		assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	})

	t.Run("length bounds", func(t *testing.T) {
		v := NewStringValidation("ab").WithMinLength(3).WithMaxLength(10)
		assert.False(t, v.Validate())

		v = NewStringValidation("abcd").WithMinLength(3).WithMaxLength(10)
		assert.True(t, v.Validate())

		v = NewStringValidation("abcdefghijk").WithMinLength(3).WithMaxLength(10)
		assert.False(t, v.Validate())
	})

	t.Run("pattern check", func(t *testing.T) {
		v := NewStringValidation("USA").WithPattern(CompiledPatterns.Country)
		assert.True(t, v.Validate())

		v = NewStringValidation("US").WithPattern(CompiledPatterns.Country)
		assert.False(t, v.Validate())
	})
}
