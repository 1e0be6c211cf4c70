package logger_i

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/NotesAPI/internal/config"
)

func TestLogger_PicksUpHandlerAfterCreation(t *testing.T) {
	log := NewLogger("early")

	var buf bytes.Buffer
	previous := slog.Default()
	defer slog.SetDefault(previous)
	InitWithWriter(&buf, slog.LevelInfo, false)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "abc-123")
	log.WithTrace(ctx).With("fileId", "f1").Info("hello")
	log.Debug("hidden")

	out := buf.String()
	for _, want := range []string{"component=early", "traceId=abc-123", "fileId=f1", "msg=hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be filtered at info level")
	}
}
