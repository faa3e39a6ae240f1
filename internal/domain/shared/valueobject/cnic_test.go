package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCNIC(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"bare digits", "1234567890123", "12345-6789012-3", true},
		{"already formatted", "12345-6789012-3", "12345-6789012-3", true},
		{"spaces", "12345 6789012 3", "12345-6789012-3", true},
		{"too short", "123456789012", "", false},
		{"too long", "12345678901234", "", false},
		{"letters", "12345-678901A-3", "", false},
		{"empty", "", "", false},
		{"devanagari digit", "1234567890१", "", false},
		{"arabic-indic digits", "١٢٣٤٥٦1", "", false},
		{"fullwidth digit", "12345-67890３", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatCNIC(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCNIC_Idempotent(t *testing.T) {
	once, ok := FormatCNIC("4210112345671")
	assert.True(t, ok)

	twice, ok := FormatCNIC(once)
	assert.True(t, ok)
	assert.Equal(t, once, twice)
}
