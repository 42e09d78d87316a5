package adapter

import (
	"errors"
	"fmt"

	"github.com/fableforge/fable-sync/models"
)

// Failure taxonomy for remote calls. The retry scheduler classifies on
// these sentinels: validation failures are terminal, network/timeout/server
// failures are retryable, conflicts route to the conflict resolver.
var (
	// ErrValidation marks a 4xx rejection of the payload itself. Retrying
	// the same payload cannot succeed.
	ErrValidation = errors.New("remote rejected the payload")
	// ErrNetwork marks a transport-level failure before a response arrived.
	ErrNetwork = errors.New("network failure")
	// ErrTimeout marks a request that exceeded its bounded timeout.
	// Treated identically to a network failure: the outcome is unknown.
	ErrTimeout = errors.New("request timed out")
	// ErrServer marks a 5xx response; the remote is expected to recover.
	ErrServer = errors.New("remote server error")
)

// ConflictError reports that the pushed base version no longer matches the
// server's checksum. Remote carries the server's current state for the
// conflict resolver.
type ConflictError struct {
	Remote models.RemoteRecord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s/%s: remote checksum %s",
		e.Remote.EntityType, e.Remote.EntityID, e.Remote.Checksum)
}
