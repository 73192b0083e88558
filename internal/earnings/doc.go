// Package earnings resolves the earnings-announcement date written for a ticker.
//
// An earnings page surfaces two candidate date strings: the most recent past
// announcement (top) and the next or primary announcement row (bottom). The
// Selector turns that pair into exactly one domain.Outcome:
//
//	both absent                              -> MANUAL
//	top absent, bottom absent or not recent  -> MANUAL
//	top absent                               -> bottom
//	bottom absent                            -> top
//	bottom inside the recency window         -> bottom
//	otherwise                                -> top
//
// A chosen candidate that does not parse degrades to MANUAL. The recency
// window is inclusive on both ends and trails today by WindowDays (30).
//
// Pipeline wraps a Retriever and a Selector and absorbs every per-ticker
// failure: retrieval errors, including panics inside a Retriever, become
// LOAD ERROR and never reach the caller.
package earnings
