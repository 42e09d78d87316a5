// Package config assembles the fable-sync engine configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// The three sources are merged through a builder (earlier sources win) into
// a [StructuredConfig], then mapped into the validated [SyncConfig] view
// consumed by the engine constructors. Defaults for tuning knobs (timeouts,
// retry policy, batch sizing) are applied during the mapping step so that a
// minimal configuration only needs a device id, a base URL, and a DSN.
package config
