// Package inmemorystore provides a thread-safe, in-memory implementation
// of the seqstore.Store interface. It is suitable for development, testing,
// or any scenario where the sequence library does not need to be persisted.
package inmemorystore
