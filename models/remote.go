package models

import "time"

// UpsertRequest is the wire payload for pushing one entity change to the
// remote data API. BaseVersion carries the checksum the client last saw;
// the server rejects the write with a conflict response when it no longer
// matches the server's current checksum.
type UpsertRequest struct {
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Fields      Fields     `json:"fields,omitempty"`
	BaseVersion string     `json:"base_version,omitempty"`
	Checksum    string     `json:"checksum"`
	DeviceID    string     `json:"device_id"`
	ClientTime  time.Time  `json:"client_time"`
}

// DeleteRequest removes one entity remotely, guarded by the same
// version-match rule as UpsertRequest.
type DeleteRequest struct {
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	BaseVersion string     `json:"base_version,omitempty"`
	DeviceID    string     `json:"device_id"`
	ClientTime  time.Time  `json:"client_time"`
}

// UpsertResponse acknowledges a successful upsert or delete and reports
// the checksum the server now holds for the entity.
type UpsertResponse struct {
	EntityID string `json:"entity_id"`
	Checksum string `json:"checksum"`
	Version  int64  `json:"version,omitempty"`
}
