package sl

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}

func TestSecret(t *testing.T) {
	assert.Equal(t, "sk-a****", Secret("key", "sk-abcdef").Value.String())
	assert.Equal(t, "****", Secret("key", "abc").Value.String())
}

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	p := Printf{Log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))}

	p.Warnf("retry %d of %d\n", 1, 2)
	p.Debugf("hidden")
	p.Errorf("failed: %s", "timeout")

	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="retry 1 of 2"`)
	assert.Contains(t, out, `level=ERROR msg="failed: timeout"`)
	assert.NotContains(t, out, "hidden")
}
