package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Contains(t *testing.T) {
	filter, err := NewFilter(BannedTerms)
	assert.NoError(t, err, "expected filter to build")

	tcases := []struct {
		name    string
		text    string
		blocked bool
	}{
		{
			name:    "clean message",
			text:    "anyone up for basketball at the park?",
			blocked: false,
		},
		{
			name:    "contains banned term",
			text:    "you are such an idiot",
			blocked: true,
		},
		{
			name:    "mixed case",
			text:    "I HATE this court",
			blocked: true,
		},
		{
			name:    "punctuation between letters",
			text:    "what an i.d.i.o.t",
			blocked: true,
		},
		{
			name:    "empty message",
			text:    "",
			blocked: false,
		},
		{
			name:    "only punctuation",
			text:    "!!! ???",
			blocked: false,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blocked, filter.Contains(tc.text), "expected blocked=%v for %q", tc.blocked, tc.text)
		})
	}
}

func TestNewFilter_emptyTermList(t *testing.T) {
	_, err := NewFilter(nil)
	assert.Error(t, err, "expected an error building a filter with no terms")
}
