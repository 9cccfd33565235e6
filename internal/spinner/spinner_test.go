package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_DrawsAndClears(t *testing.T) {
	var buf syncBuffer
	stop := Start(&buf, "loading 日本")
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "loading 日本")
	}, time.Second, 10*time.Millisecond)
	stop()
	stop() // idempotent

	out := buf.String()
	// the clear line covers the display width: 8 + 4 + 2
	assert.True(t, strings.HasSuffix(out, "\r"+strings.Repeat(" ", 14)+"\r"))
}

func TestStartIfTerminal_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	stop := StartIfTerminal(&buf, "loading")
	time.Sleep(2 * Interval)
	stop()
	assert.Empty(t, buf.String())
}
