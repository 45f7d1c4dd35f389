package domain

// TrackSummary is one row of a catalog search result.
type TrackSummary struct {
	ID     string // songmid, the catalog's opaque track identifier
	Title  string
	Artist string
}

// SearchResult is an ordered list of track summaries. Order is the relevance
// order returned by the catalog; duplicate IDs from upstream are passed
// through untouched.
type SearchResult []TrackSummary
