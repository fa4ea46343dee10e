// Package services defines shared utilities consumed by the batch tasks and the
// catalog client.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, task names, and item keys for
//     logging and journaling.
//   - Structured error markers plus the Wrap helper that classify failures
//     into skipped items (parse, malformed input) versus failed units of work
//     (remote calls).
//
// Use these helpers when wiring new task logic so per-item error handling
// stays uniform: skip and count, never abort the batch.
package services
