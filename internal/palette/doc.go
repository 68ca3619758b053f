// Package palette assigns display colors to entity labels.
//
// Colors are sampled from the light half of the RGB cube (every channel in
// [128, 255]) so that highlighted text stays legible, and a rejection
// sampler keeps any two assigned colors separated by a minimum per-channel
// distance.
//
// Design decision: The separation criterion is not guaranteed satisfiable
// for arbitrary label counts and thresholds, so sampling is bounded by a
// retry budget per label. Running out of retries returns ErrExhausted
// instead of looping forever.
package palette
