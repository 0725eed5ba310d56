// Package fingerprint folds heterogeneous values into a fixed-size key.
//
// Fold normalizes each input into a structural summary, encodes the ordered
// list of summaries with canonical CBOR and digests the bytes with BLAKE3 in
// keyed mode. The key of the Domain separates cache keys from cache
// versions, so the same inputs never produce the same value in both.
//
// Values take part in a fold according to their shape:
//   - Contributor values fold their CacheContribution instead of themselves
//   - Set values fold their members in canonical order, without duplicates
//   - funcs fold their code identity (symbol name, file and line)
//   - maps, slices and pointers are walked recursively
//   - everything else is handed to the CBOR encoder as is
//
// Keys are stable within one process. Function identities depend on the
// binary, so keys are not meant to survive a rebuild.
package fingerprint
