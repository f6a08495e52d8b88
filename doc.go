// Package keyspace is a namespacing and validation layer in front of a
// key-value store's native command set.
//
// # Overview
//
// keyspace lets multiple logical applications or environments share one
// physical store safely. Every base key is combined with an optional prefix
// and version segment into a final namespaced key, and every write gets a
// default expiration so abandoned keys age out on their own.
//
// The package separates the client (key composition, argument validation,
// TTL policy) from the Store capability (the raw SET/HSET/DEL surface).
// Two stores ship with the package: Memory for tests and single-process use,
// and RedisStore backed by go-redis.
//
// # Quick Start
//
//	c := keyspace.New(
//		keyspace.WithPrefix("app"),
//		keyspace.WithVersion("v1"),
//	)
//	ctx := context.Background()
//
//	c.Set(ctx, "user1001", "Alice")          // stored as "app:v1:user1001"
//	v, _ := c.Get(ctx, "user1001")
//	name := v.Or("unknown")
//
// # Namespacing
//
// Keys are composed as "prefix:version:key", skipping empty segments. Both
// segments can be overridden for a single call:
//
//	c.Set(ctx, "flag", 1, keyspace.Pre("other"), keyspace.Ver("v2"))
//
// A non-empty per-call override replaces the instance value entirely; it is
// never concatenated with it. Segments must not contain ":" themselves; the
// composer performs no escaping.
//
// # Expiration
//
// Every successful write re-applies an expiration: DefaultTTL (14 days)
// unless the call carries keyspace.TTL. The write and the expire are two
// store round-trips, not one atomic step.
//
// # Absent vs. empty
//
// Reads return a Value that distinguishes a missing key from a present but
// falsy one. Value.Or substitutes its default only when the key or field is
// absent, so a stored "" or 0 comes back as-is.
//
// # Errors
//
// Invalid arguments fail with a *ValidationError before any store
// round-trip; errors.Is(err, ErrValidation) matches them. Store failures
// propagate unmodified.
package keyspace
