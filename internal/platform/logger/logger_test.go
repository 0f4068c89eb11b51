package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestToKVs_SortsAndRedacts(t *testing.T) {
	kv := toKVs(map[string]any{
		"pet_id":      "p1",
		"password":    "hunter2",
		"owner_email": "a@b.c",
		"":            "ignored",
	})

	assert.Equal(t, []any{
		"owner_email", "[REDACTED]",
		"password", "[REDACTED]",
		"pet_id", "p1",
	}, kv)
}

func TestWith_EmptyFieldsReturnsSameLogger(t *testing.T) {
	l := NewNop()
	assert.Same(t, l, l.With(nil))
}
