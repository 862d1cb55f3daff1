// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Check(t *testing.T) {
	h := New(func() error { return nil })

	status, err := h.Status(time.Minute)
	require.NoError(t, err)
	assert.False(t, status.Healthy, "never checked")
	assert.Nil(t, status.Store.LastCheck)

	require.NoError(t, h.Check())
	h.Ready(true)

	status, err = h.Status(time.Minute)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	require.NotNil(t, status.Store.LastCheck)
	assert.WithinDuration(t, time.Now(), *status.Store.LastCheck, time.Second)
	assert.Empty(t, status.Store.Error)
}

func TestHealth_NotReady(t *testing.T) {
	h := New(func() error { return nil })
	require.NoError(t, h.Check())

	status, err := h.Status(time.Minute)
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
}

func TestHealth_ProbeFailure(t *testing.T) {
	h := New(func() error { return errors.New("leveldb: closed") })
	h.Ready(true)

	assert.Error(t, h.Check())

	status, err := h.Status(time.Minute)
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "leveldb: closed", status.Store.Error)
}

func TestHealth_StaleCheck(t *testing.T) {
	h := New(func() error { return nil })
	h.Ready(true)
	require.NoError(t, h.Check())

	time.Sleep(5 * time.Millisecond)
	status, err := h.Status(time.Millisecond)
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}

func TestHealth_Run(t *testing.T) {
	var calls atomic.Int32
	h := New(func() error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
