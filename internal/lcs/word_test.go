package lcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sublee/convargs/internal/lcs"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		ident string
		want  []string
	}{
		{"Lower", "value", []string{"value"}},
		{"Camel", "userName", []string{"user", "Name"}},
		{"Pascal", "UserName", []string{"User", "Name"}},
		{"TrailingInitialism", "userID", []string{"user", "ID"}},
		{"LeadingInitialism", "HTTPServer", []string{"HTTP", "Server"}},
		{"Snake", "max_retry", []string{"max", "_", "retry"}},
		{"Digits", "arg2", []string{"arg", "2"}},
		{"DigitsBetween", "v2Arg", []string{"v", "2", "Arg"}},
		{"Blank", "_value3", []string{"_", "value", "3"}},
		{"Underscores", "a__b", []string{"a", "__", "b"}},
		{"Unicode", "größeMax", []string{"größe", "Max"}},
		{"Empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lcs.Words(tt.ident))
		})
	}
}
