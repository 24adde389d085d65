// Package core defines the shared language of the Quarry system.
//
// This package contains:
//   - Domain entities (Schema, TableRecord, Tab, ImportRecord)
//   - Service interfaces (Adapter, Store)
//
// The Golden Rule: pkg/core imports only the stdlib. All other
// packages depend on core, not the reverse.
package core
