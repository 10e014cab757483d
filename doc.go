// Package storepath reads and writes nested fields of JSON values kept in a
// flat key-value store.
//
// A path such as "user.profile.age" (or "user/profile/age") names a root key,
// "user", that addresses one blob in the store, plus nested segments inside the
// decoded value. Reads fetch and decode the blob and walk the segments; writes
// fetch, mutate the decoded tree in place, and persist the whole root again in
// a single store write.
//
//	store := kv.NewMemoryStore()
//	a := storepath.New(store)
//	_, _ = a.Set(ctx, "user.profile.age", 36)
//	age, _ := a.Get(ctx, "user.profile.age") // 36.0
//
// Nested writes are read-modify-write without isolation: two writers touching
// the same root key concurrently may lose one update. WithOptimisticWrites
// turns that into a kv.ErrVersionConflict on backends implementing
// kv.VersionedBackend.
package storepath
