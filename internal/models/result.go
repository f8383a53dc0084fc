package models

// SearchResult is one ranked candidate returned by the lexical index.
// Results for a single query are ordered by Score descending with ties
// broken by DocumentID ascending, so repeated queries on an unchanged
// corpus return byte-identical orderings.
type SearchResult struct {
	DocumentID   string       `json:"document_id"`
	Kind         DocumentKind `json:"kind"`
	Locator      string       `json:"locator"`
	Title        string       `json:"title"`
	Score        float64      `json:"score"` // Higher is more relevant
	MatchedTerms []string     `json:"matched_terms,omitempty"`
	Snippet      string       `json:"snippet,omitempty"` // Matched text span for display

	// Document carries the full resolved document for downstream
	// citation extraction. Omitted from JSON to keep responses lean.
	Document *Document `json:"-"`
}

// ExactLocatorScore is assigned when a query parses as a bare citation and
// short-circuits to a direct corpus lookup, bypassing lexical ranking.
const ExactLocatorScore = 1000.0

// ResolutionNode is one node in the reference-resolution closure.
type ResolutionNode struct {
	// Document is the resolved document; nil when Resolved is false
	Document *Document `json:"document,omitempty"`

	// Resolved distinguishes followed references from references to
	// missing source material. Unresolved nodes keep the raw mention so
	// callers can report "likely missing source" instead of dropping it.
	Resolved bool `json:"resolved"`

	// Depth is the distance from the originating search result (0 = the result itself)
	Depth int `json:"depth"`

	// Via is the mention that caused this node to be included (nil at depth 0)
	Via *CitationMention `json:"via,omitempty"`
}

// ResultBundle is the provenance-annotated answer for one query.
type ResultBundle struct {
	Query string `json:"query"`

	// Primary holds the ranked lexical candidates
	Primary []*SearchResult `json:"primary"`

	// CrossReferences holds the depth-ordered, deduplicated resolution closure
	CrossReferences []*ResolutionNode `json:"cross_references"`
}

// Empty reports whether the bundle carries no primary results.
// An empty bundle is a normal, reportable outcome ("NOT FOUND"), never an error.
func (b *ResultBundle) Empty() bool {
	return len(b.Primary) == 0
}
