package models

// CitationMention is a parsed cross-reference found inside some source text.
// Mentions are ephemeral - created per query and discarded once resolved.
type CitationMention struct {
	// SourceDocumentID is the document in which the mention occurs.
	// Empty when the mention was parsed from query text.
	SourceDocumentID string `json:"source_document_id,omitempty"`

	// TargetKind is the document kind the mention should resolve to
	TargetKind DocumentKind `json:"target_kind"`

	// RawText is the exact substring matched (e.g., "section 68", "Directive 11R")
	RawText string `json:"raw_text"`

	// NormalizedLocator is the canonical locator derived from RawText
	// (e.g., "68", "11R"). Empty when the mention could not be anchored;
	// such mentions resolve as unresolved rather than being dropped.
	NormalizedLocator string `json:"normalized_locator"`

	// Start and End delimit the character span of RawText in the source text
	Start int `json:"start"`
	End   int `json:"end"`
}

// Key returns the deduplication key for a mention's resolution target
func (m *CitationMention) Key() string {
	return string(m.TargetKind) + "/" + m.NormalizedLocator
}
