// Package repositories implements SQLite persistence for the alias table.
//
// Alias names are stored normalized (lowercased, trimmed, single-spaced)
// so that the same spoken phrase always lands on the same row.
//
// Key Implementations:
//   - [AliasRepository] : alias CRUD plus wholesale replacement
//   - [AliasStoreAdapter] : bridges the repository to the services.AliasStore seam
package repositories
