// Package pkg provides the core libraries for Kintree genealogy record keeping.
//
// # Overview
//
// Kintree stores flat genealogy records (people and the relationships between
// them), derives a navigable family forest from them, and renders the forest
// as positioned family tree charts. The pkg directory is organized into four
// main areas:
//
//  1. [family] and [store] - Domain records and persistence
//  2. [tree] and [tree/layout] - Forest derivation and geometry
//  3. [render] and [render/nodelink] - Visual output sinks
//  4. [pipeline] - Orchestration (build → layout → render) with caching
//
// # Architecture
//
// The typical data flow through Kintree:
//
//	Flat records (people + relationships)
//	         ↓
//	    [tree] package (derive the augmented family forest)
//	         ↓
//	    [tree/layout] package (position boxes, route connector lines)
//	         ↓
//	    [render] package (chart SVG) or [render/nodelink] (Graphviz)
//	         ↓
//	    SVG/PNG/DOT/JSON output
//
// # Quick Start
//
// Build a forest from records and render it:
//
//	import (
//	    "context"
//	    "github.com/kintree/kintree/pkg/pipeline"
//	    "github.com/kintree/kintree/pkg/store"
//	)
//
//	// 1. Open a store and add records
//	st := store.NewMemory()
//	// ... InsertPerson / AddRelationship ...
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), st, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
//	// 3. Use the artifacts
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Domain Records
//
// [family] - The Person and Relationship record types, the four relationship
// kinds (parent, child, spouse, sibling), and the reciprocal mapping between
// them. Validation lives on the types themselves.
//
// [store] - The Store interface with in-memory and MongoDB backends. The store
// owns the reciprocal invariant: adding a relationship stores its mirror, and
// deleting either half removes both. Deleting a person cascades to every edge
// that touches it.
//
// ## Derivation and Geometry
//
// [tree] - Builds the augmented forest from flat records: each person gains
// Children, Parents, Spouses, and Siblings slices resolved from the edge list.
//
// [tree/layout] - Turns a forest into pixel geometry. Generations become rows,
// couples become adjacent box pairs, and connector lines (spouse, drop, bus,
// branch) are routed between them. Output is a plain JSON-serializable
// document a client can draw without further computation.
//
// ## Rendering
//
// [render] - Chart SVG sink drawing the layout document directly, with
// optional title and per-box sublabels.
//
// [render/nodelink] - Traditional directed-graph view via Graphviz. Emits DOT
// and renders SVG or PNG through the dot layout engine.
//
// ## Orchestration and Infrastructure
//
// [pipeline] - The Runner executes build → layout → render with per-stage
// content-addressed caching. Shared by the CLI and the HTTP API.
//
// [cache] - Cache interface with file, Redis, and null backends, plus the
// Keyer that derives cache keys from record and layout hashes.
//
// [kinio] - Snapshot export and import. A snapshot is a portable JSON document
// of every record; import replays it through a store, remapping IDs and
// re-establishing mirror edges.
//
// [config] - TOML configuration for the server: listen address, store backend,
// cache backend.
//
// [errors] - Structured errors with machine-readable codes, used to map
// failures to HTTP statuses and CLI messages.
//
// [observability] - Optional hooks for metrics and tracing, registered at
// startup and invoked by the pipeline, cache, and HTTP surface.
//
// [buildinfo] - Version metadata injected at build time.
package pkg
