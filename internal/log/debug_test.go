package log

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDebugLogger(t *testing.T) {
	t.Helper()

	globalDebugLogger.mu.Lock()
	prev := struct {
		out     io.Writer
		file    *os.File
		buffer  []byte
		discard bool
	}{globalDebugLogger.out, globalDebugLogger.file, append([]byte(nil), globalDebugLogger.buffer...), globalDebugLogger.discard}
	globalDebugLogger.out = nil
	globalDebugLogger.file = nil
	globalDebugLogger.buffer = nil
	globalDebugLogger.discard = false
	globalDebugLogger.mu.Unlock()

	t.Cleanup(func() {
		globalDebugLogger.mu.Lock()
		defer globalDebugLogger.mu.Unlock()
		if globalDebugLogger.file != nil {
			_ = globalDebugLogger.file.Close()
		}
		globalDebugLogger.out = prev.out
		globalDebugLogger.file = prev.file
		globalDebugLogger.buffer = prev.buffer
		globalDebugLogger.discard = prev.discard
	})
}

func TestBufferedUntilFileIsSet(t *testing.T) {
	resetDebugLogger(t)

	Printf("scanned %d paths", 3)
	Println("before sink")

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	Printf("after sink")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "scanned 3 paths")
	assert.Contains(t, text, "before sink")
	assert.Contains(t, text, "after sink")
	assert.True(t, strings.HasPrefix(text, "lsvcs "))
	assert.Less(t, strings.Index(text, "scanned"), strings.Index(text, "after sink"))
}

func TestSetOutputFlushesBuffer(t *testing.T) {
	resetDebugLogger(t)

	Printf("queued")
	var buf bytes.Buffer
	SetOutput(&buf)
	Printf("direct")

	assert.Contains(t, buf.String(), "queued")
	assert.Contains(t, buf.String(), "direct")
}

func TestEmptyPathDiscards(t *testing.T) {
	resetDebugLogger(t)

	Printf("dropped")
	require.NoError(t, SetFile(""))
	Printf("dropped too")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.True(t, globalDebugLogger.discard)
	assert.Empty(t, globalDebugLogger.buffer)
}

func TestBufferIsBounded(t *testing.T) {
	resetDebugLogger(t)

	line := strings.Repeat("x", 1024)
	for range 2 * maxBuffered / len(line) {
		Println(line)
	}
	Println("newest")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.LessOrEqual(t, len(globalDebugLogger.buffer), maxBuffered)
	assert.True(t, bytes.HasSuffix(globalDebugLogger.buffer, []byte("newest\n")))
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	resetDebugLogger(t)
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	unwritableDir := t.TempDir()
	require.NoError(t, os.Chmod(unwritableDir, 0o500)) //nolint:gosec
	t.Cleanup(func() {
		_ = os.Chmod(unwritableDir, 0o700) //nolint:gosec
	})

	Printf("buffered")
	err := SetFile(filepath.Join(unwritableDir, "debug.log"))
	require.Error(t, err)

	Printf("should be discarded")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.True(t, globalDebugLogger.discard)
	assert.Empty(t, globalDebugLogger.buffer)
}
