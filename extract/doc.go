// Package extract separates structured coach payloads from streamed
// assistant prose. The coach emits fenced, tagged JSON blocks (ADLI score
// sets, edit suggestions, improvement tasks, metric suggestions) interleaved
// with free-form text; this package locates the blocks, decodes them into
// typed records, and returns display-safe prose with all block markup
// removed.
//
// All functions are pure: they re-scan the full accumulated text on every
// call, never mutate their input, and hold no shared state. Callers that own
// a live token stream invoke them once per incoming chunk; results are
// deterministic for a given input string. Decode failures never propagate:
// a malformed block degrades to "no payload found" while the surrounding
// prose is still cleaned.
package extract
