// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// checksumLen is the number of hex characters kept from the SHA-256 digest.
// Collision resistance at this length is far beyond what version stamping
// needs; cryptographic strength is not a requirement here.
const checksumLen = 16

// Checksum computes a deterministic content hash of an entity snapshot.
//
// The snapshot is canonicalized through encoding/json, which sorts map keys
// recursively, so two field maps with equal content always produce the same
// checksum regardless of insertion order. The resulting SHA-256 digest is
// hex-encoded and truncated to checksumLen characters.
//
// The checksum is used to stamp ChangeRecord.BaseVersion at capture time and
// to detect no-op edits before they are enqueued.
func Checksum(snapshot map[string]any) string {
	if len(snapshot) == 0 {
		return ""
	}

	canonical, err := json.Marshal(snapshot)
	if err != nil {
		// Field maps come from JSON-compatible host data; a marshal failure
		// means a non-serializable value sneaked in. Hash the error text so
		// the caller still gets a stable, non-empty stamp.
		canonical = []byte(err.Error())
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])[:checksumLen]
}
