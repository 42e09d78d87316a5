// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package netmon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(t *testing.T, baseURL string, interval time.Duration) *PingMonitor {
	t.Helper()
	m, err := NewPingMonitor(config.SyncAdapter{
		BaseURL:        baseURL,
		HealthPath:     "/api/health",
		PingInterval:   interval,
		RequestTimeout: time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return m
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPingMonitor_DetectsHealthyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, 10*time.Millisecond)
	assert.False(t, m.IsOnline(), "до первого пинга состояние оффлайн")

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.IsOnline, "monitor never went online")
}

func TestPingMonitor_NotifiesOnTransitions(t *testing.T) {
	// health-ручка переключается между ок и недоступно
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, 10*time.Millisecond)

	var mu sync.Mutex
	var transitions []bool
	unsubscribe := m.OnChange(func(online bool) {
		mu.Lock()
		transitions = append(transitions, online)
		mu.Unlock()
	})
	defer unsubscribe()

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.IsOnline, "monitor never went online")

	healthy.Store(false)
	waitFor(t, func() bool { return !m.IsOnline() }, "monitor never went offline")

	healthy.Store(true)
	waitFor(t, m.IsOnline, "monitor never recovered")

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(transitions), 3)
	assert.Equal(t, []bool{true, false, true}, transitions[:3])
}

func TestPingMonitor_UnsubscribeStopsCallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, 10*time.Millisecond)

	var calls atomic.Int32
	unsubscribe := m.OnChange(func(bool) { calls.Add(1) })
	unsubscribe()

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.IsOnline, "monitor never went online")
	assert.Zero(t, calls.Load())
}

func TestPingMonitor_RequiresBaseURL(t *testing.T) {
	_, err := NewPingMonitor(config.SyncAdapter{}, logger.Nop())
	require.Error(t, err)
}

// fakeMonitor позволяет руками переключать состояние сети в тестах гейта
type fakeMonitor struct {
	mu     sync.Mutex
	online bool
	subs   []func(bool)
}

func (f *fakeMonitor) IsOnline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeMonitor) OnChange(cb func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, cb)
	return func() {}
}

func (f *fakeMonitor) flip(online bool) {
	f.mu.Lock()
	f.online = online
	subs := append([]func(bool){}, f.subs...)
	f.mu.Unlock()
	for _, cb := range subs {
		cb(online)
	}
}

func TestNetworkGate_TriggersDrainOnRestoreOnly(t *testing.T) {
	monitor := &fakeMonitor{}

	var drains atomic.Int32
	gate := NewNetworkGate(monitor, func() { drains.Add(1) }, logger.Nop())
	defer gate.Close()

	monitor.flip(false)
	assert.Zero(t, drains.Load(), "уход в оффлайн не должен запускать слив очереди")

	monitor.flip(true)
	assert.Equal(t, int32(1), drains.Load())

	monitor.flip(false)
	monitor.flip(true)
	assert.Equal(t, int32(2), drains.Load())
}

func TestNetworkGate_OnlineReflectsMonitor(t *testing.T) {
	monitor := &fakeMonitor{online: true}
	gate := NewNetworkGate(monitor, nil, logger.Nop())
	defer gate.Close()

	assert.True(t, gate.Online())
	monitor.flip(false)
	assert.False(t, gate.Online())
}
