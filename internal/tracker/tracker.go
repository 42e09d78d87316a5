// Package tracker records local create/update/delete edits per entity and
// merges them so that at most one pending change record exists for any
// (entity type, entity id) pair at a time.
package tracker

import (
	"sort"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/internal/utils"
	"github.com/fableforge/fable-sync/models"
)

// Tracker accumulates pending change records between drain cycles. It is
// safe for concurrent use; all mutations go through one mutex.
type Tracker struct {
	deviceID string
	log      *logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	pending  map[string]*models.ChangeRecord
	versions map[string]string
}

// NewTracker constructs a Tracker stamping deviceID on every record.
func NewTracker(deviceID string, log *logger.Logger) *Tracker {
	return &Tracker{
		deviceID: deviceID,
		log:      log,
		now:      time.Now,
		pending:  make(map[string]*models.ChangeRecord),
		versions: make(map[string]string),
	}
}

// RecordCreate stores a full entity snapshot as a pending create record.
// A repeated create for the same entity replaces the previous snapshot.
func (tr *Tracker) RecordCreate(entityType models.EntityType, id string, data models.Fields) (models.ChangeRecord, error) {
	if err := validateEntity(entityType, id); err != nil {
		return models.ChangeRecord{}, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	rec := &models.ChangeRecord{
		EntityType: entityType,
		EntityID:   id,
		Operation:  models.OpCreate,
		Fields:     data.Clone(),
		Timestamp:  tr.now(),
		DeviceID:   tr.deviceID,
	}
	tr.pending[rec.Key()] = rec

	tr.log.Debug().Str("entity", rec.Key()).Msg("recorded create")
	return *rec, nil
}

// RecordUpdate merges changed fields into the pending record for the
// entity. A pending create absorbs the fields and remains a create; a
// pending update merges per-field with the newer edit winning on overlap;
// otherwise a fresh update record is created, stamped with the last synced
// checksum as its base version.
//
// Updating an entity with a pending delete is a structural error: the host
// must re-create the entity first.
func (tr *Tracker) RecordUpdate(entityType models.EntityType, id string, fields models.Fields) (models.ChangeRecord, error) {
	if err := validateEntity(entityType, id); err != nil {
		return models.ChangeRecord{}, err
	}
	if len(fields) == 0 {
		return models.ChangeRecord{}, ErrNoFields
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	key := models.EntityKey(entityType, id)
	existing, ok := tr.pending[key]
	if !ok {
		rec := &models.ChangeRecord{
			EntityType:  entityType,
			EntityID:    id,
			Operation:   models.OpUpdate,
			Fields:      fields.Clone(),
			BaseVersion: tr.versions[key],
			Timestamp:   tr.now(),
			DeviceID:    tr.deviceID,
		}
		tr.pending[key] = rec
		tr.log.Debug().Str("entity", key).Msg("recorded update")
		return *rec, nil
	}

	if existing.Operation == models.OpDelete {
		return models.ChangeRecord{}, ErrEntityDeleted
	}

	// Later edits win on overlapping fields. Recording is serialized, so
	// "later" and "newer timestamp" coincide here.
	if err := mergo.Merge(&existing.Fields, fields.Clone(), mergo.WithOverride); err != nil {
		return models.ChangeRecord{}, err
	}
	existing.Timestamp = tr.now()

	tr.log.Debug().Str("entity", key).Str("op", string(existing.Operation)).Msg("merged update into pending record")
	return *existing, nil
}

// RecordDelete records a deletion. A pending create cancels out: the record
// is dropped entirely and cancelled is true, leaving no network effect. A
// pending update is discarded in favor of the delete.
func (tr *Tracker) RecordDelete(entityType models.EntityType, id string) (rec models.ChangeRecord, cancelled bool, err error) {
	if err = validateEntity(entityType, id); err != nil {
		return models.ChangeRecord{}, false, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	key := models.EntityKey(entityType, id)
	if existing, ok := tr.pending[key]; ok && existing.Operation == models.OpCreate {
		delete(tr.pending, key)
		tr.log.Debug().Str("entity", key).Msg("create cancelled by delete")
		return models.ChangeRecord{}, true, nil
	}

	del := &models.ChangeRecord{
		EntityType:  entityType,
		EntityID:    id,
		Operation:   models.OpDelete,
		BaseVersion: tr.versions[key],
		Timestamp:   tr.now(),
		DeviceID:    tr.deviceID,
	}
	tr.pending[key] = del

	tr.log.Debug().Str("entity", key).Msg("recorded delete")
	return *del, false, nil
}

// Checksum returns the deterministic content hash of an entity snapshot.
// Used to stamp base versions and to drop no-op edits before enqueue.
func (tr *Tracker) Checksum(snapshot models.Fields) string {
	return utils.Checksum(snapshot)
}

// Take consumes and removes the pending record for the given entity key,
// if any. The record's lifecycle continues inside a SyncOperation.
func (tr *Tracker) Take(key string) (models.ChangeRecord, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	rec, ok := tr.pending[key]
	if !ok {
		return models.ChangeRecord{}, false
	}
	delete(tr.pending, key)
	return *rec, true
}

// TakeAll consumes every pending record, ordered by capture timestamp so
// FIFO per entity extends to a stable overall order.
func (tr *Tracker) TakeAll() []models.ChangeRecord {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]models.ChangeRecord, 0, len(tr.pending))
	for _, rec := range tr.pending {
		out = append(out, *rec)
	}
	tr.pending = make(map[string]*models.ChangeRecord)

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Pending returns a copy of all pending records without consuming them.
func (tr *Tracker) Pending() []models.ChangeRecord {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]models.ChangeRecord, 0, len(tr.pending))
	for _, rec := range tr.pending {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Restore re-registers records loaded from a persisted snapshot. Existing
// pending records for the same entity are not overwritten; a restored
// snapshot never clobbers newer live edits.
func (tr *Tracker) Restore(records []models.ChangeRecord) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for i := range records {
		rec := records[i]
		if _, ok := tr.pending[rec.Key()]; ok {
			continue
		}
		tr.pending[rec.Key()] = &rec
	}
}

// SetBaseVersion stamps the last remotely-acknowledged checksum for an
// entity. Future update/delete records capture it as their base version.
func (tr *Tracker) SetBaseVersion(key, checksum string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if checksum == "" {
		delete(tr.versions, key)
		return
	}
	tr.versions[key] = checksum
}

// BaseVersion returns the last acknowledged checksum for an entity key.
func (tr *Tracker) BaseVersion(key string) string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.versions[key]
}

func validateEntity(entityType models.EntityType, id string) error {
	if !models.KnownEntityType(entityType) {
		return ErrUnknownEntityType
	}
	if id == "" {
		return ErrEmptyEntityID
	}
	return nil
}
