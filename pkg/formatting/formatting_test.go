package formatting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"kilobytes", "1KB", 1024, false},
		{"megabytes", "4MB", 4 * 1024 * 1024, false},
		{"lowercase unit", "10mb", 10 * 1024 * 1024, false},
		{"with space", "100 MB", 100 * 1024 * 1024, false},
		{"surrounding whitespace", "  1MB  ", 1024 * 1024, false},
		{"zero", "0", 0, false},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{500, 0, "500 B"},
		{1024, 0, "1 KB"},
		{1536 * 1024, 1, "1.5 MB"},
		{1024, -1, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatting.FormatBytes(tt.n, tt.precision))
		})
	}
}

type differential struct {
	Diagnoses []struct {
		Name string `json:"name"`
	} `json:"diagnoses"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"direct JSON", `{"diagnoses":[{"name":"Appendicitis"}]}`},
		{"padded", "  {\"diagnoses\":[{\"name\":\"Appendicitis\"}]}  "},
		{"json fence", "```json\n{\"diagnoses\":[{\"name\":\"Appendicitis\"}]}\n```"},
		{"bare fence", "```\n{\"diagnoses\":[{\"name\":\"Appendicitis\"}]}\n```"},
		{"fence with prose", "Differential follows:\n```json\n{\"diagnoses\":[{\"name\":\"Appendicitis\"}]}\n```\nEnd."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[differential](tt.input)
			require.NoError(t, err)
			require.Len(t, got.Diagnoses, 1)
			assert.Equal(t, "Appendicitis", got.Diagnoses[0].Name)
		})
	}
}

func TestParseFailures(t *testing.T) {
	for _, input := range []string{"", "not json at all", "```json\n{broken\n```"} {
		_, err := formatting.Parse[map[string]any](input)
		assert.ErrorIs(t, err, formatting.ErrParseFailed)
	}
}
