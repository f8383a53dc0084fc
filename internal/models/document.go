package models

import (
	"time"
)

// DocumentKind identifies which corpus table family a document belongs to.
// Kinds are an explicit enumeration - new domains are added by defining a new
// kind, not by runtime schema discovery.
type DocumentKind string

const (
	// KindStatuteSection is a numbered statute section or subdivision (e.g., "168.1(1)(a)(ii)")
	KindStatuteSection DocumentKind = "statute_section"
	// KindDirective is a numbered directive (e.g., "11R")
	KindDirective DocumentKind = "directive"
	// KindRelationship is an extracted relationship snippet linking other documents
	KindRelationship DocumentKind = "extracted_relationship"
)

// AllKinds lists every valid document kind in display order
var AllKinds = []DocumentKind{KindStatuteSection, KindDirective, KindRelationship}

// Valid reports whether the kind is one of the known enumeration values
func (k DocumentKind) Valid() bool {
	switch k {
	case KindStatuteSection, KindDirective, KindRelationship:
		return true
	}
	return false
}

// Document represents an immutable unit of corpus text.
// Documents are created at ingestion and never mutated on the query path.
type Document struct {
	// Identity
	ID   string       `json:"id"`   // doc_<uuid>
	Kind DocumentKind `json:"kind"` // statute_section, directive, extracted_relationship

	// Addressing
	Locator       string `json:"locator"`                  // Hierarchical address, unique within a kind (e.g., "168.1(1)(a)(ii)", "11R")
	ParentLocator string `json:"parent_locator,omitempty"` // Enclosing section when this document is a sub-unit

	// Content
	Title string `json:"title"`
	Text  string `json:"text"` // Plain-text body (markdown stripped at ingestion)

	// Metadata (source-specific data stored as JSON)
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectionRoot returns the locator with any parenthesized subdivision trail
// removed ("168.1(1)(a)" -> "168.1"). Used when anchoring bare subsection
// mentions to the section currently being read.
func (d *Document) SectionRoot() string {
	return LocatorRoot(d.Locator)
}

// LocatorRoot strips the parenthesized subdivision trail from a locator
func LocatorRoot(locator string) string {
	for i := 0; i < len(locator); i++ {
		if locator[i] == '(' {
			return locator[:i]
		}
	}
	return locator
}

// DocumentInput is one (kind, locator, text) tuple accepted by the ingestion
// boundary. Text may be markdown; it is normalized to plain text before
// indexing.
type DocumentInput struct {
	Kind          DocumentKind           `json:"kind" yaml:"kind" validate:"required,oneof=statute_section directive extracted_relationship"`
	Locator       string                 `json:"locator" yaml:"locator" validate:"required"`
	ParentLocator string                 `json:"parent_locator,omitempty" yaml:"parent_locator"`
	Title         string                 `json:"title" yaml:"title"`
	Text          string                 `json:"text" yaml:"text" validate:"required"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" yaml:"metadata"`
}

// CorpusStats represents statistics about the loaded corpus
type CorpusStats struct {
	TotalDocuments  int                  `json:"total_documents"`
	DocumentsByKind map[DocumentKind]int `json:"documents_by_kind"`
	AverageTextSize int                  `json:"average_text_size"`
	LastUpdated     time.Time            `json:"last_updated"`
}
