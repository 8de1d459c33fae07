// Package reembed regenerates entity name embeddings after an embedding
// model change. Entities are processed region by region in batches, with
// retry and exponential backoff around the embedding calls, progress
// reporting, and vector normalization so stored vectors stay compatible
// with cosine similarity matching.
package reembed
