// Package cacheaside wraps loaders (functions that read an authoritative
// source such as a database) with a tiered read-through cache.
//
// A wrapped loader has the same signature as the loader itself. On a call the
// cache is consulted first; only missing keys reach the loader and its results
// are written back. Keys the loader cannot resolve are remembered for a short
// time with negative placeholders so absent data does not hammer the source.
//
// Components:
//   - Provider: byte store with TTL. Remote (e.g. Redis) is required, Local
//     (LRU, Ristretto, BigCache) is optional and read-through over Remote.
//   - Codec: (de)serializes values, lists and per-id values <-> []byte.
//   - Policy: key template, hit/miss TTLs and local tier opt-in per call site.
//
// Shapes:
//
//	WrapOne          arg -> V            "user:%d"      -> user:42
//	WrapList         arg -> []V          "orders:%d"    -> orders:42
//	WrapMap          []id -> map[id]V    "user:%d"      -> user:1, user:2 ...
//	WrapMapList      []id -> map[id][]V
//	WrapMapWith      []id, s -> map[id]V "user:%d" + s  -> user:1:s ...
//	WrapMapListWith  []id, s -> map[id][]V
//
// Store failures never reach the caller: a failed read is a miss and a failed
// write is logged and dropped. Only loader errors and misconfiguration
// (*PreconditionError, *FormatError) are returned.
package cacheaside
