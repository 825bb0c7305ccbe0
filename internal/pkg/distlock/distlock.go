// Package distlock provides a Redis-backed distributed lock.
//
// The import API uses it to serialize commits per organization: the
// existing-number snapshot is read once per run, so two overlapping imports
// for the same account could both pass dedup and double-insert. Holding a
// per-org lock across the commit closes that window between replicas.
package distlock
