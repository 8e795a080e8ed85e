// Package ingestion builds a tenant's searchable catalog.
//
// The Pipeline type manages the full ingestion workflow:
//   - Listing the channel's videos
//   - Transcribing each video concurrently
//   - Assembling transcripts into a corpus and chunking it
//   - Embedding the chunks and writing them to the vector index
//   - Recording the tenant's catalog in storage
//
// Transcription is performed concurrently using a worker pool. A single
// video failure is recorded and skipped; the run fails only when nothing
// at all could be transcribed or when a shared stage fails.
package ingestion
