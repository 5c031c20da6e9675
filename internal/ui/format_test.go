package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.input))
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "□□□□", ProgressBar(0, 4))
	assert.Equal(t, "▪▪□□", ProgressBar(50, 4))
	assert.Equal(t, "▪▪▪▪", ProgressBar(150, 4))
	assert.Equal(t, "□□", ProgressBar(-5, 2))
	assert.Empty(t, ProgressBar(50, 0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "2m 05s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h 01m 01s", FormatDuration(3661*time.Second))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…ghij", Truncate("abcdefghij", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "anything", Truncate("anything", 0))
}
