/*
Package catalog persists the ordered record list of each library kind and keeps
it consistent with the directories on disk.

Each kind ("assets", "textures", "stockshots") is one JSON array stored under a
key of that name in a [Backend]. Every mutation rewrites the whole array with
a single atomic Put. Two backends are provided: [SQLiteBackend], a one-table
key/value database, and [BadgerBackend], an embedded LSM store.

# Reconciliation

Reads drop records whose directory no longer exists and write the pruned list
back. Directories without a record are left alone; the catalog never invents
records.

# Concurrency

Every operation holds a per-kind mutex for its whole read-modify-write, so
concurrent appends and renames within a process never lose updates. [Open]
also takes an exclusive lock file so a second process cannot open the same
library.
*/
package catalog
