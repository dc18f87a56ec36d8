// Package ingest copies user files into new library entries.
//
// Each Save* call creates a store entry, copies the sources into it,
// generates a thumbnail where the kind has one, and appends the record to
// the catalog. Any copy or catalog failure removes the partial entry before
// the error is returned. Thumbnail failures never fail an import.
//
// Stockshot copies run in batches: files within a batch are copied
// concurrently, batches run one after another, and a Progress event is
// reported after each batch. The sink always receives a final nil event.
package ingest
