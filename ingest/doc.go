// Package ingest provides the ingestion orchestration for uploaded records.
//
// The Orchestrator type drives one record through the routing state machine:
// metadata parsing, content-type routing, the tabular path (load, classify,
// map, normalize, validate, persist) or the free-form path (entity cache,
// analysis, persist). Metadata parsing is the only hard-fail point; the rest
// degrades to warnings on the IngestResult wherever possible.
//
// The Batch type runs independent ingestion calls concurrently using a
// worker pool, grouping files by region so each region's entity cache is
// loaded once and read serially.
package ingest
