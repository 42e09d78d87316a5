// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package tracker

import (
	"testing"

	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	return NewTracker("device-1", logger.Nop())
}

// ── RecordCreate ─────────────────────────────────────────────────────────────

func TestRecordCreate_StoresSnapshot(t *testing.T) {
	tr := newTestTracker(t)

	rec, err := tr.RecordCreate(models.EntityProject, "p1", models.Fields{"title": "P1"})
	require.NoError(t, err)

	assert.Equal(t, models.OpCreate, rec.Operation)
	assert.Equal(t, "P1", rec.Fields["title"])
	assert.Equal(t, "device-1", rec.DeviceID)
	assert.Empty(t, rec.BaseVersion)
	assert.Len(t, tr.Pending(), 1)
}

func TestRecordCreate_UnknownType(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordCreate("spaceship", "s1", models.Fields{"name": "x"})
	assert.ErrorIs(t, err, ErrUnknownEntityType)

	_, err = tr.RecordCreate(models.EntityProject, "", models.Fields{"name": "x"})
	assert.ErrorIs(t, err, ErrEmptyEntityID)
}

// ── RecordUpdate ─────────────────────────────────────────────────────────────

func TestRecordUpdate_MergesIntoPendingCreate(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordCreate(models.EntityCharacter, "c1", models.Fields{"name": "Aragorn", "age": 87})
	require.NoError(t, err)

	rec, err := tr.RecordUpdate(models.EntityCharacter, "c1", models.Fields{"name": "Strider"})
	require.NoError(t, err)

	// остаётся create с объединёнными полями
	assert.Equal(t, models.OpCreate, rec.Operation)
	assert.Equal(t, "Strider", rec.Fields["name"])
	assert.Equal(t, 87, rec.Fields["age"])
	assert.Len(t, tr.Pending(), 1)
}

func TestRecordUpdate_LastWriteWinsOnOverlap(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordUpdate(models.EntityCharacter, "c1", models.Fields{"name": "Strider", "home": "Bree"})
	require.NoError(t, err)
	rec, err := tr.RecordUpdate(models.EntityCharacter, "c1", models.Fields{"name": "Aragorn II"})
	require.NoError(t, err)

	// поле name перезаписано, home из первого апдейта сохранилось
	assert.Equal(t, models.OpUpdate, rec.Operation)
	assert.Equal(t, "Aragorn II", rec.Fields["name"])
	assert.Equal(t, "Bree", rec.Fields["home"])
	assert.Len(t, tr.Pending(), 1)
}

func TestRecordUpdate_StampsBaseVersion(t *testing.T) {
	tr := newTestTracker(t)
	key := models.EntityKey(models.EntityNote, "n1")
	tr.SetBaseVersion(key, "v1-checksum")

	rec, err := tr.RecordUpdate(models.EntityNote, "n1", models.Fields{"body": "draft"})
	require.NoError(t, err)
	assert.Equal(t, "v1-checksum", rec.BaseVersion)
}

func TestRecordUpdate_AfterDeleteFails(t *testing.T) {
	tr := newTestTracker(t)

	tr.SetBaseVersion(models.EntityKey(models.EntityNote, "n1"), "v1")
	_, _, err := tr.RecordDelete(models.EntityNote, "n1")
	require.NoError(t, err)

	_, err = tr.RecordUpdate(models.EntityNote, "n1", models.Fields{"body": "x"})
	assert.ErrorIs(t, err, ErrEntityDeleted)
}

func TestRecordUpdate_NoFields(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordUpdate(models.EntityNote, "n1", nil)
	assert.ErrorIs(t, err, ErrNoFields)
}

// ── RecordDelete ─────────────────────────────────────────────────────────────

func TestRecordDelete_CancelsPendingCreate(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordCreate(models.EntityProject, "p1", models.Fields{"title": "P1"})
	require.NoError(t, err)

	_, cancelled, err := tr.RecordDelete(models.EntityProject, "p1")
	require.NoError(t, err)

	assert.True(t, cancelled)
	assert.Empty(t, tr.Pending(), "create+delete must leave no pending record")
}

func TestRecordDelete_DiscardsPendingUpdate(t *testing.T) {
	tr := newTestTracker(t)
	key := models.EntityKey(models.EntityScene, "s1")
	tr.SetBaseVersion(key, "v3")

	_, err := tr.RecordUpdate(models.EntityScene, "s1", models.Fields{"title": "new"})
	require.NoError(t, err)

	rec, cancelled, err := tr.RecordDelete(models.EntityScene, "s1")
	require.NoError(t, err)

	assert.False(t, cancelled)
	assert.Equal(t, models.OpDelete, rec.Operation)
	assert.Empty(t, rec.Fields)
	assert.Equal(t, "v3", rec.BaseVersion)
	require.Len(t, tr.Pending(), 1)
	assert.Equal(t, models.OpDelete, tr.Pending()[0].Operation)
}

// ── Take / Restore ───────────────────────────────────────────────────────────

func TestTake_ConsumesRecord(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordCreate(models.EntityProject, "p1", models.Fields{"title": "P1"})
	require.NoError(t, err)

	key := models.EntityKey(models.EntityProject, "p1")
	rec, ok := tr.Take(key)
	require.True(t, ok)
	assert.Equal(t, "p1", rec.EntityID)

	_, ok = tr.Take(key)
	assert.False(t, ok, "record must be consumed exactly once")
}

func TestTakeAll_OrderedByTimestamp(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordCreate(models.EntityProject, "p1", models.Fields{"title": "P1"})
	require.NoError(t, err)
	_, err = tr.RecordCreate(models.EntityCharacter, "c1", models.Fields{"name": "Frodo"})
	require.NoError(t, err)

	all := tr.TakeAll()
	require.Len(t, all, 2)
	assert.False(t, all[1].Timestamp.Before(all[0].Timestamp))
	assert.Empty(t, tr.Pending())
}

func TestRestore_DoesNotClobberLiveEdits(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.RecordUpdate(models.EntityNote, "n1", models.Fields{"body": "live"})
	require.NoError(t, err)

	tr.Restore([]models.ChangeRecord{
		{EntityType: models.EntityNote, EntityID: "n1", Operation: models.OpUpdate, Fields: models.Fields{"body": "stale"}},
		{EntityType: models.EntityNote, EntityID: "n2", Operation: models.OpUpdate, Fields: models.Fields{"body": "restored"}},
	})

	pending := tr.Pending()
	require.Len(t, pending, 2)
	for _, rec := range pending {
		if rec.EntityID == "n1" {
			assert.Equal(t, "live", rec.Fields["body"])
		}
	}
}

func TestChecksum_SkipsNoOpDetection(t *testing.T) {
	tr := newTestTracker(t)

	snapshot := models.Fields{"title": "unchanged"}
	first := tr.Checksum(snapshot)
	second := tr.Checksum(models.Fields{"title": "unchanged"})

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
