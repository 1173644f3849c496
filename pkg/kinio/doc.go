// Package kinio provides JSON snapshot export and import for family records.
//
// # Overview
//
// A snapshot captures the complete flat record state - every person and every
// relationship edge - plus a unique snapshot ID and export timestamp. The
// format is designed for:
//
//   - Backups of a record set and moving data between store backends
//   - Integration with external tools that produce or consume family data
//   - Round-trip preservation: export, import, and export identically
//
// # JSON Format
//
//	{
//	  "id": "2f3c9a9e-7a4b-4a59-bb5e-0d6c1f9df2a1",
//	  "exported_at": "2026-08-24T12:00:00Z",
//	  "people": [
//	    {"id": 1, "name": "Greta Holm"},
//	    {"id": 2, "name": "Henrik Holm"}
//	  ],
//	  "relationships": [
//	    {"id": 1, "type": "spouse", "person_id": 1, "related_person_id": 2},
//	    {"id": 2, "type": "spouse", "person_id": 2, "related_person_id": 1}
//	  ]
//	}
//
// Relationships appear in both directions, exactly as the store holds them.
//
// # Import
//
// Use [Restore] to replay a snapshot into a store. Records are inserted
// through the normal store operations, so IDs are reassigned and the
// reciprocal edge of every relationship is re-established by the store
// itself - a hand-edited snapshot missing half its mirrors imports cleanly.
//
// # Export
//
// Use [WriteJSON] to write the current store contents to any io.Writer, or
// [ExportJSON] for file-based output.
package kinio
