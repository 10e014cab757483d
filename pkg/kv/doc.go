// Package kv defines the flat key-value capability that go-storepath layers
// nested, path-addressed access on top of, plus a small in-memory
// implementation.
//
// Responsibilities:
//   - Backend only gets/sets/removes one opaque string blob per key. It has no
//     notion of nesting and never inspects the blob.
//   - VersionedBackend additionally exposes a per-key version token so callers
//     can detect a concurrent writer between a read and the following write.
//     Detection only: the store never merges, and callers decide whether to
//     retry.
//
// Data flow:
//
//	storepath.Accessor -> Backend.GetItem -> (decode, mutate, encode) -> Backend.SetItem
//
// Versions are storage-owned. MemoryStore issues random UUID versions on every
// write; adapters over real stores can map them onto ETags, revision numbers,
// or compare-and-swap tokens.
package kv
