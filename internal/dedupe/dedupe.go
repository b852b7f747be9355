package dedupe

// Package dedupe provides the shared singleflight group used to
// deduplicate concurrent catalog fetches. Only one fetch runs for a given
// key ("anime:<id>", "user:<name>") while other callers wait for the
// result.

import "golang.org/x/sync/singleflight"

// CatalogGroup deduplicates AniList fetches keyed by the cache key of the
// requested resource.
var CatalogGroup singleflight.Group
