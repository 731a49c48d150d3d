// Package models defines domain entities and persistence interfaces for the song preview lookup service.
//
// [Lookup] is the only persistent entity: one row per preview lookup made through the HTTP endpoint
// or the CLI, successful or not. A failed lookup keeps the classified error kind, the outward status and
// the message; a successful one keeps the preview URL and the number of audio bytes delivered.
//
// All persistent entities implement the [Model] interface providing IDs, timestamps and validation.
// The [Repository] interface defines the data access operations.
package models
