package logging

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	ctx := WithRequestID(context.Background(), "rid-1")
	FromContext(ctx).Errorf("create_brief", "model failed: %v", "boom")
	FromContext(context.Background()).Infof("list_briefs", "count=%d", 3)

	out := buf.String()
	assert.Contains(t, out, "[error] request_id=rid-1 operation=create_brief model failed: boom")
	assert.Contains(t, out, "[info] request_id=unknown operation=list_briefs count=3")
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	l, err := NewFileLogger(path)
	require.NoError(t, err)
	l.Printf("first line\n")
	l.Printf("second %d", 2)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "] first line"))
	assert.True(t, strings.HasSuffix(lines[1], "] second 2"))

	var nilLogger *FileLogger
	nilLogger.Printf("ignored")
	assert.NoError(t, nilLogger.Close())
}
