// Package cli implements the finboard command tree.
//
// Every command shares one app: configuration is loaded and logging is set
// up in the root PersistentPreRunE, and the cache store, gate and upstream
// client are built lazily on first use so that `dashboard --watch` reads
// through one cache for its whole lifetime.
package cli
