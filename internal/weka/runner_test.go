package weka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ssh"
)

func TestSSHRunnerConcurrentRunsSerializeDialing(t *testing.T) {
	r := NewSSHRunner("wk-node", time.Second)

	var dials int32
	r.dialFn = func() (*ssh.Client, error) {
		atomic.AddInt32(&dials, 1)
		return nil, fmt.Errorf("connection refused")
	}

	// The stats and cluster-status pollers hit the runner concurrently;
	// the client guard must hold up under that.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Run(context.Background(), "weka", "status")
			assert.ErrorIs(t, err, ErrUnreachable)
		}()
	}
	wg.Wait()

	// Each failed attempt dials exactly once, never in parallel.
	assert.EqualValues(t, 8, atomic.LoadInt32(&dials))
	assert.NoError(t, r.Close())
}

func TestSSHRunnerCloseWithoutConnection(t *testing.T) {
	r := NewSSHRunner("wk-node", 0)
	assert.Equal(t, 10*time.Second, r.Timeout)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}
