// Package state loads and saves widget settings snapshots.
//
// A Store only loads and saves one snapshot for one Ref. The Resolver lays a
// loaded snapshot over defaults and runs read-modify-write cycles guarded by
// an ETag, so a file edited by someone else between load and save is not
// silently overwritten.
//
// Data flow:
//
//	Store.Load -> layering.MergeLayers(snapshot, defaults) -> caller
//	Store.Load -> Mutator -> Validate -> Store.Save
//
// FileStore keeps snapshots as YAML or JSON files selected by extension.
// MemoryStore backs tests and examples.
package state
