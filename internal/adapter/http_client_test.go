// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI создаёт httpRemoteAPI, направленный на тестовый сервер
func newTestAPI(t *testing.T, serverURL string) RemoteAPI {
	t.Helper()

	api, err := NewHTTPRemoteAPI(config.SyncAdapter{
		BaseURL:        serverURL,
		RequestTimeout: 2 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return api
}

func upsertRequest() models.UpsertRequest {
	return models.UpsertRequest{
		EntityType:  models.EntityCharacter,
		EntityID:    "c1",
		Fields:      models.Fields{"name": "Strider"},
		BaseVersion: "v1",
		Checksum:    "v2-local",
		DeviceID:    "device-A",
		ClientTime:  time.Now(),
	}
}

// ── Upsert ───────────────────────────────────────────────────────────────────

func TestUpsert_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/entities/character/c1", r.URL.Path)

		var req models.UpsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v1", req.BaseVersion)
		assert.Equal(t, "device-A", req.DeviceID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.UpsertResponse{EntityID: "c1", Checksum: "v2"})
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	ack, err := api.Upsert(context.Background(), upsertRequest())

	require.NoError(t, err)
	assert.Equal(t, "v2", ack.Checksum)
}

func TestUpsert_ConflictCarriesRemoteState(t *testing.T) {
	remote := models.RemoteRecord{
		EntityType: models.EntityCharacter,
		EntityID:   "c1",
		Fields:     models.Fields{"name": "Aragorn"},
		Checksum:   "v9",
		DeviceID:   "device-B",
		UpdatedAt:  time.Now(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(remote)
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	_, err := api.Upsert(context.Background(), upsertRequest())

	require.Error(t, err)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "v9", conflictErr.Remote.Checksum)
	assert.Equal(t, "device-B", conflictErr.Remote.DeviceID)
	assert.Equal(t, "Aragorn", conflictErr.Remote.Fields["name"])
}

func TestUpsert_ValidationErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("unknown field"))
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	_, err := api.Upsert(context.Background(), upsertRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpsert_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	_, err := api.Upsert(context.Background(), upsertRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
}

func TestUpsert_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже закрыт — соединение откажет

	api := newTestAPI(t, srv.URL)
	_, err := api.Upsert(context.Background(), upsertRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestUpsert_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	api, err := NewHTTPRemoteAPI(config.SyncAdapter{
		BaseURL:        srv.URL,
		RequestTimeout: 50 * time.Millisecond,
	}, logger.Nop())
	require.NoError(t, err)

	_, err = api.Upsert(context.Background(), upsertRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/entities/scene/s1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	_, err := api.Delete(context.Background(), models.DeleteRequest{
		EntityType:  models.EntityScene,
		EntityID:    "s1",
		BaseVersion: "v3",
		DeviceID:    "device-A",
	})

	require.NoError(t, err)
}

func TestDelete_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.RemoteRecord{
			EntityType: models.EntityScene,
			EntityID:   "s1",
			Checksum:   "v5",
			DeviceID:   "device-B",
		})
	}))
	defer srv.Close()

	api := newTestAPI(t, srv.URL)
	_, err := api.Delete(context.Background(), models.DeleteRequest{
		EntityType: models.EntityScene,
		EntityID:   "s1",
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "v5", conflictErr.Remote.Checksum)
}

func TestNewHTTPRemoteAPI_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPRemoteAPI(config.SyncAdapter{}, logger.Nop())
	require.Error(t, err)
}
