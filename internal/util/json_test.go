package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_PlainObject(t *testing.T) {
	out, ok := ExtractJSONObject(`{"a": 1}`)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtractJSONObject_WrappedInProse(t *testing.T) {
	out, ok := ExtractJSONObject("Sure, here it is:\n```json\n{\"a\": {\"b\": 2}}\n```\nDone.")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 2}}`, out)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	out, ok := ExtractJSONObject(`{"text": "has } and { inside", "n": 1}`)
	require.True(t, ok)
	assert.Equal(t, `{"text": "has } and { inside", "n": 1}`, out)
}

func TestExtractJSONObject_EscapedQuotes(t *testing.T) {
	out, ok := ExtractJSONObject(`{"text": "say \"hi\" {now}"}`)
	require.True(t, ok)
	assert.Equal(t, `{"text": "say \"hi\" {now}"}`, out)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, ok := ExtractJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject(`{"unbalanced": true`)
	assert.False(t, ok)
}
