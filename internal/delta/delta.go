// Package delta converts pending change records into minimal, checksummed
// sync operations and derives cross-entity dependencies from explicit
// references inside the payload.
package delta

import (
	"encoding/json"
	"strings"

	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/internal/utils"
	"github.com/fableforge/fable-sync/models"
)

// Builder turns change records into sync operations.
type Builder struct {
	ids *utils.UUIDGenerator
	log *logger.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		ids: utils.NewUUIDGenerator(),
		log: log,
	}
}

// Build produces one SyncOperation from a single entity's change record.
//
// The payload stays minimal: updates carry only the changed fields the
// tracker accumulated, creates the full snapshot, deletes the id alone.
// The operation checksum covers the canonicalized fields so the queue can
// drop no-op edits, and DependsOn is derived from explicit references to
// entities whose creates are still pending (pendingCreates maps entity key
// to the operation id that will create it).
//
// Dependencies come only from references present in the payload; ordering
// between unrelated entities is never inferred from timing.
func (b *Builder) Build(rec models.ChangeRecord, pendingCreates map[string]string) models.SyncOperation {
	op := models.SyncOperation{
		ID:       b.ids.Generate(),
		Records:  []models.ChangeRecord{rec},
		Priority: derivePriority(rec),
		Status:   models.StatusPending,
	}

	if rec.Operation != models.OpDelete {
		op.Checksum = utils.Checksum(rec.Fields)
		op.DependsOn = deriveDependencies(rec, pendingCreates)
	}
	op.SizeBytes = estimateSize(rec)

	b.log.Debug().
		Str("op_id", op.ID).
		Str("entity", rec.Key()).
		Str("operation", string(rec.Operation)).
		Int("deps", len(op.DependsOn)).
		Msg("built sync operation")

	return op
}

// derivePriority ranks operations. Project creates go first: every other
// entity lives inside a project, and a dependent create that arrives before
// its project fails server-side validation outright. Deletes can wait.
func derivePriority(rec models.ChangeRecord) models.Priority {
	switch {
	case rec.Operation == models.OpCreate && rec.EntityType == models.EntityProject:
		return models.PriorityHigh
	case rec.Operation == models.OpDelete:
		return models.PriorityLow
	default:
		return models.PriorityNormal
	}
}

// deriveDependencies collects operation ids this record must wait for. A
// field value referencing another entity counts when that entity's create
// has not completed yet:
//
//   - a models.EntityRef value (or its JSON map form after a snapshot
//     reload) resolves through the referenced entity's key;
//   - a plain string value under a key ending in "_id" or "_ref" resolves
//     by bare entity id against pending creates of any type.
func deriveDependencies(rec models.ChangeRecord, pendingCreates map[string]string) []string {
	if len(pendingCreates) == 0 || len(rec.Fields) == 0 {
		return nil
	}

	// Secondary index by bare id for the string-key convention.
	byID := make(map[string]string, len(pendingCreates))
	for key, opID := range pendingCreates {
		if _, id, ok := strings.Cut(key, "/"); ok {
			byID[id] = opID
		}
	}

	seen := make(map[string]bool)
	var deps []string
	add := func(opID string) {
		if opID != "" && !seen[opID] {
			seen[opID] = true
			deps = append(deps, opID)
		}
	}

	for name, value := range rec.Fields {
		if ref, ok := asEntityRef(value); ok {
			add(pendingCreates[ref.Key()])
			continue
		}
		if !strings.HasSuffix(name, "_id") && !strings.HasSuffix(name, "_ref") {
			continue
		}
		if id, ok := value.(string); ok {
			add(byID[id])
		}
	}

	return deps
}

// asEntityRef recognizes an explicit entity reference either as the typed
// models.EntityRef or as the map it becomes after a JSON round-trip.
func asEntityRef(value any) (models.EntityRef, bool) {
	switch v := value.(type) {
	case models.EntityRef:
		return v, v.EntityType != "" && v.EntityID != ""
	case map[string]any:
		et, _ := v["entity_type"].(string)
		id, _ := v["entity_id"].(string)
		if et == "" || id == "" {
			return models.EntityRef{}, false
		}
		return models.EntityRef{EntityType: models.EntityType(et), EntityID: id}, true
	default:
		return models.EntityRef{}, false
	}
}

// estimateSize approximates the wire payload size of a record for the
// batch payload cap. Exactness is not required; the cap is advisory.
func estimateSize(rec models.ChangeRecord) int {
	payload, err := json.Marshal(rec)
	if err != nil {
		return 0
	}
	return len(payload)
}
