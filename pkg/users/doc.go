// Package users stores the local accounts that Google identities sign in to.
//
// Store is the storage contract used by the login flow. MemoryStore is meant
// for tests and single-process demos; PostgresStore persists to the users
// table created by the migrations package.
//
// Username derivation is deterministic for a given set of existing names:
//
//	name, err := users.UniqueUsername(ctx, store, "jöhn.doe@example.com")
//	// "john.doe", or "john.doe1" when taken
//
// Two concurrent registrations deriving the same base name may both pick the
// same candidate; the second Create then fails with ErrUsernameTaken.
package users
