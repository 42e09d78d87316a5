package adapter

import (
	"context"

	"github.com/fableforge/fable-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteAPI is the outbound contract with the remote data API. Both calls
// carry upsert-with-version semantics: the request's base version must
// match the server's current checksum or the call fails with a
// *ConflictError carrying the server's current state.
type RemoteAPI interface {
	Upsert(ctx context.Context, req models.UpsertRequest) (models.UpsertResponse, error)
	Delete(ctx context.Context, req models.DeleteRequest) (models.UpsertResponse, error)
}
