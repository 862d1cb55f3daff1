// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"
)

type StoreCheck struct {
	LastCheck *time.Time `json:"lastCheck"`
	Error     string     `json:"error,omitempty"`
}

type Status struct {
	Healthy bool        `json:"healthy"`
	Store   *StoreCheck `json:"store"`
	Ready   bool        `json:"ready"`
}

// Health tracks the outcome of periodic store probes and whether the service
// finished starting up.
type Health struct {
	lock      sync.RWMutex
	probe     func() error
	lastCheck time.Time
	lastErr   error
	ready     bool
}

func New(probe func() error) *Health {
	return &Health{probe: probe}
}

// Check runs the probe once and records its result.
func (h *Health) Check() error {
	err := h.probe()

	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCheck = time.Now()
	h.lastErr = err
	return err
}

// Run checks the store every interval until ctx is done.
func (h *Health) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check()
		}
	}
}

func (h *Health) Ready(ready bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.ready = ready
}

// Status reports healthy when ready and the latest probe succeeded no longer than maxAge ago.
func (h *Health) Status(maxAge time.Duration) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	store := &StoreCheck{}
	if !h.lastCheck.IsZero() {
		ts := h.lastCheck
		store.LastCheck = &ts
	}
	if h.lastErr != nil {
		store.Error = h.lastErr.Error()
	}

	healthy := h.ready &&
		!h.lastCheck.IsZero() &&
		h.lastErr == nil &&
		time.Since(h.lastCheck) <= maxAge

	return &Status{
		Healthy: healthy,
		Store:   store,
		Ready:   h.ready,
	}, nil
}
