package websocket

import (
	"testing"
	"time"

	"synthmind-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestHub_StopEndsRunOnce(t *testing.T) {
	h := NewHub(logger.NewNopLogger())
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Zero(t, h.Count())
}
