package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Mode selects keyword, semantic or hybrid retrieval.
	Mode SearchMode

	// Limit is the maximum number of results.
	Limit int
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Slug identifies the matched document.
	Slug string `json:"slug"`

	// Title is the document title.
	Title string `json:"title"`

	// Score is the relevance score in [0,1].
	Score float64 `json:"score"`

	// Explanation says which retrieval path produced the hit.
	Explanation string `json:"explanation"`

	// Snippet is the best matching window of the body.
	Snippet string `json:"snippet,omitempty"`

	// Tags are the document tags.
	Tags []string `json:"tags,omitempty"`
}
