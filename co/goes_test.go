// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoesGoAndWait(t *testing.T) {
	var g Goes
	var counter atomic.Int32

	for range 10 {
		g.Go(func() { counter.Add(1) })
	}
	g.Wait()

	assert.Equal(t, int32(10), counter.Load())
}

func TestGoesStop(t *testing.T) {
	var g Goes
	var ticks atomic.Int32

	g.GoContext(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
				ticks.Add(1)
			}
		}
	})

	assert.Eventually(t, func() bool { return ticks.Load() > 2 }, time.Second, time.Millisecond)
	g.Stop()

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("routines did not exit after Stop")
	}
	// Stop is idempotent
	g.Stop()
}

func TestGoesStopBeforeStart(t *testing.T) {
	var g Goes
	g.Stop()

	exited := make(chan struct{})
	g.GoContext(func(ctx context.Context) {
		<-ctx.Done()
		close(exited)
	})
	g.Wait()
	<-exited
}
