package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, capture := NewTestLogger(t)

	child := logger.With(slog.String("component", "join"))
	child.Warn("Join step skipped", slog.String("step", "plants"))
	logger.Info("done")

	records := capture.Records()
	require.Len(t, records, 2)

	rec := AssertLogged(t, capture, slog.LevelWarn, "step skipped")
	assert.Equal(t, "join", rec.Attrs["component"], "attributes of derived loggers are kept")
	assert.Equal(t, "plants", rec.Attrs["step"])
	assert.Empty(t, capture.Find(slog.LevelError, "done"))
	AssertNoErrors(t, capture)
}

func TestMaterialSources(t *testing.T) {
	a, b := MaterialSources(), MaterialSources()
	require.Len(t, a, 6)

	st, ok := a.Get("storage")
	require.True(t, ok)
	other, _ := b.Get("storage")
	assert.NotSame(t, st, other, "each call builds fresh tables")
}
