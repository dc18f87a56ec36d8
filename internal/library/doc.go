// Package library is the operation boundary of the asset library. It wires
// the content store, catalog, thumbnail generator and ingest pipeline
// together and turns their errors into structured results: storage, decode
// and not-found failures become Result{Success: false, Error: ...}, a
// dismissed picker becomes Result{Canceled: true}.
//
// The HTTP handlers and the assetctl command both drive a Service.
package library
