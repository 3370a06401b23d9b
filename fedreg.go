// Package fedreg provides a Federal Register document harvester and search
// assistant. It syncs paginated document records from the Federal Register
// API into a local SQLite corpus, deduplicates them by content hash, and
// answers constrained search and chat-style queries over the stored corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, fs/).
package fedreg
