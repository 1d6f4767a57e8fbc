package service

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	n.Success("Booking confirmed!")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"msg":"Booking confirmed!"`)
	assert.Contains(t, buf.String(), `"notification":"success"`)

	buf.Reset()
	n.Failure("Failed to cancel booking", errors.New("disk full"))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"notification":"failure"`)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestLogNotifier_NilLogger(t *testing.T) {
	n := NewLogNotifier(nil)
	assert.NotPanics(t, func() {
		n.Success("ok")
		n.Failure("failed", errors.New("boom"))
	})
}
