// Package conflict detects divergence between a local pending change and
// the remote state, and resolves it under an explicit strategy. Nothing in
// this package ever picks a side silently: unresolved overlaps escalate to
// manual resolution.
package conflict

import (
	"reflect"
	"sort"
	"time"

	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/internal/utils"
	"github.com/fableforge/fable-sync/models"
)

// FieldResolver merges one overlapping field. It returns the merged value
// and true, or false when it cannot decide this field.
type FieldResolver func(field string, local, remote any) (any, bool)

// Resolution is the outcome of resolving one conflict case.
type Resolution struct {
	// State classifies the outcome.
	State models.ResolutionState
	// Fields is the payload to push (local overwrite or merged value).
	// Empty for RemoteWins and ManualRequired.
	Fields models.Fields
	// BaseVersion is the version the follow-up push must carry so it
	// lands on the remote's current state instead of re-conflicting.
	BaseVersion string
	// Unresolved lists overlapping fields no resolver could decide.
	Unresolved []string
}

// Resolver implements conflict detection and strategy application.
type Resolver struct {
	ids *utils.UUIDGenerator
	log *logger.Logger
	now func() time.Time
}

// NewResolver constructs a Resolver.
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{
		ids: utils.NewUUIDGenerator(),
		log: log,
		now: time.Now,
	}
}

// Detect reports whether local and remote genuinely diverged.
//
// A conflict exists iff the remote checksum differs from the local record's
// base version AND the remote change came from a different device after the
// local capture time. A mismatch attributed to this same device is an echo
// of our own earlier push: the caller should re-stamp and retry, not
// resolve.
func (r *Resolver) Detect(local models.ChangeRecord, remote models.RemoteRecord) bool {
	if remote.Checksum == "" || remote.Checksum == local.BaseVersion {
		return false
	}
	if remote.DeviceID != "" && remote.DeviceID == local.DeviceID {
		return false
	}
	// Capture time proxy: the record's own timestamp. An unknown remote
	// update time counts as divergence; claiming staleness requires proof.
	if !remote.UpdatedAt.IsZero() && remote.UpdatedAt.Before(local.Timestamp) {
		return false
	}
	return true
}

// NewCase builds a surfaced ConflictCase for a diverged pair.
func (r *Resolver) NewCase(opID string, local models.ChangeRecord, remote models.RemoteRecord) models.ConflictCase {
	return models.ConflictCase{
		ID:         r.ids.Generate(),
		OpID:       opID,
		Local:      local,
		Remote:     remote,
		State:      models.ManualRequired,
		DetectedAt: r.now(),
	}
}

// Resolve applies strategy to a diverged local/remote pair.
//
//   - local: discard the remote change, push the local delta as an
//     overwrite against the remote's current version.
//   - remote: discard the local pending change entirely.
//   - merge: apply the caller-supplied per-field resolver; fields changed
//     on both sides that the resolver cannot decide make the whole case
//     ManualRequired.
//   - manual: no automatic outcome; the case stays open.
//
// After any terminal resolution the caller re-stamps the entity's base
// version to the post-resolution checksum so the same conflict does not
// immediately re-trigger.
func (r *Resolver) Resolve(strategy models.ConflictStrategy, local models.ChangeRecord, remote models.RemoteRecord, fieldResolver FieldResolver) Resolution {
	switch strategy {
	case models.StrategyLocal:
		return Resolution{
			State:       models.LocalWins,
			Fields:      local.Fields.Clone(),
			BaseVersion: remote.Checksum,
		}

	case models.StrategyRemote:
		return Resolution{
			State:       models.RemoteWins,
			Fields:      remote.Fields.Clone(),
			BaseVersion: remote.Checksum,
		}

	case models.StrategyMerge:
		return r.merge(local, remote, fieldResolver)

	default:
		return Resolution{State: models.ManualRequired}
	}
}

// merge overlays the local delta on the remote state field by field.
// Non-overlapping fields combine freely; an overlapping field with
// differing values needs the resolver's verdict.
func (r *Resolver) merge(local models.ChangeRecord, remote models.RemoteRecord, fieldResolver FieldResolver) Resolution {
	merged := remote.Fields.Clone()
	if merged == nil {
		merged = make(models.Fields, len(local.Fields))
	}

	var unresolved []string
	for name, localVal := range local.Fields {
		remoteVal, overlaps := remote.Fields[name]
		if !overlaps || reflect.DeepEqual(localVal, remoteVal) {
			merged[name] = localVal
			continue
		}

		if fieldResolver != nil {
			if v, ok := fieldResolver(name, localVal, remoteVal); ok {
				merged[name] = v
				continue
			}
		}
		unresolved = append(unresolved, name)
	}

	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		r.log.Debug().
			Str("entity", local.Key()).
			Strs("fields", unresolved).
			Msg("merge left unresolved overlaps, manual resolution required")
		return Resolution{State: models.ManualRequired, Unresolved: unresolved}
	}

	return Resolution{
		State:       models.Merged,
		Fields:      merged,
		BaseVersion: remote.Checksum,
	}
}
