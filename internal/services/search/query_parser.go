package search

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a query token
type TokenType int

const (
	// TokenTypeTerm represents a regular search term
	TokenTypeTerm TokenType = iota
	// TokenTypePhrase represents a quoted phrase
	TokenTypePhrase
	// TokenTypeQualifier represents a key:value pair (e.g. kind:directive)
	TokenTypeQualifier
)

// Token represents a parsed token from the query
type Token struct {
	Value    string
	Type     TokenType
	Required bool // True if prefixed with +
}

// QueryParser parses free-text queries into FTS5 MATCH syntax.
//
// Stopword removal is configurable rather than hardcoded: statute text
// leans on words like "shall" and "may" that general-purpose stopword
// lists would throw away. The default stopword set is empty.
type QueryParser struct {
	stopwords map[string]bool
}

// NewQueryParser creates a new query parser with the given stopword set
func NewQueryParser(stopwords []string) *QueryParser {
	set := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = true
	}
	return &QueryParser{stopwords: set}
}

// Tokenize breaks a query string into tokens, respecting quotes and operators.
// Uses rune-safe iteration to properly handle Unicode characters.
// Handles:
// - Quoted phrases: "surplus income" -> single PHRASE token
// - Required terms: +bankrupt -> TERM token with Required=true
// - Qualifiers: kind:directive -> QUALIFIER token
// - Regular terms: separate TERM tokens
func (p *QueryParser) Tokenize(query string) []Token {
	var tokens []Token
	var current strings.Builder
	var inQuote bool
	var escaped bool
	var required bool

	query = strings.TrimSpace(query)

	for _, ch := range query {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}

		if ch == '\\' && inQuote {
			escaped = true
			continue
		}

		if ch == '"' {
			if inQuote {
				if current.Len() > 0 {
					tokens = append(tokens, Token{
						Value:    current.String(),
						Type:     TokenTypePhrase,
						Required: required,
					})
					current.Reset()
				}
				inQuote = false
				required = false
			} else {
				if current.Len() > 0 {
					p.flushTerm(&tokens, &current, &required)
				}
				inQuote = true
			}
			continue
		}

		if inQuote {
			current.WriteRune(ch)
			continue
		}

		if ch == '+' && current.Len() == 0 {
			required = true
			continue
		}

		if unicode.IsSpace(ch) {
			if current.Len() > 0 {
				p.flushTerm(&tokens, &current, &required)
			}
			continue
		}

		current.WriteRune(ch)
	}

	if current.Len() > 0 {
		if inQuote {
			// Unclosed quote - treat as phrase anyway
			tokens = append(tokens, Token{
				Value:    current.String(),
				Type:     TokenTypePhrase,
				Required: required,
			})
		} else {
			p.flushTerm(&tokens, &current, &required)
		}
	}

	return tokens
}

// flushTerm adds the current term to tokens and resets the builder
func (p *QueryParser) flushTerm(tokens *[]Token, current *strings.Builder, required *bool) {
	value := current.String()
	tokenType := TokenTypeTerm

	if p.IsQualifier(value) {
		tokenType = TokenTypeQualifier
	}

	*tokens = append(*tokens, Token{
		Value:    value,
		Type:     tokenType,
		Required: *required,
	})

	current.Reset()
	*required = false
}

// IsQualifier checks if a token matches the key:value pattern
func (p *QueryParser) IsQualifier(token string) bool {
	colonIdx := strings.Index(token, ":")
	if colonIdx == -1 || colonIdx == 0 || colonIdx == len(token)-1 {
		return false
	}

	if strings.Count(token, ":") > 1 {
		return false
	}

	key := token[:colonIdx]
	for _, ch := range key {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return false
		}
	}

	return true
}

// SplitQualifier splits a qualifier token into (key, value)
func (p *QueryParser) SplitQualifier(qualifier string) (string, string) {
	parts := strings.SplitN(qualifier, ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// IsStopword reports whether a term is in the configured stopword set
func (p *QueryParser) IsStopword(term string) bool {
	return p.stopwords[strings.ToLower(term)]
}

// EscapeFTS5 escapes special characters for FTS5 queries
func (p *QueryParser) EscapeFTS5(term string) string {
	return strings.ReplaceAll(term, `"`, `""`)
}

// isReservedWord checks if a term is an FTS5 reserved keyword.
// Reserved words must be quoted to be treated as literals.
func (p *QueryParser) isReservedWord(term string) bool {
	reserved := []string{"AND", "OR", "NOT", "NEAR"}

	for _, keyword := range reserved {
		if strings.EqualFold(term, keyword) {
			return true
		}
	}

	return false
}

// needsQuoting checks if a term contains FTS5 special characters that
// require quoting to be treated as a literal
func (p *QueryParser) needsQuoting(term string) bool {
	if p.isReservedWord(term) {
		return true
	}

	specialChars := []rune{' ', '-', ':', '(', ')', '*', '^', '+', '.', '§'}

	for _, ch := range term {
		for _, special := range specialChars {
			if ch == special {
				return true
			}
		}
	}

	return false
}

// BuildFTS5Query converts tokens into FTS5 query syntax.
// Stopword terms are dropped unless required or part of a phrase.
// Handles:
// - Empty query -> ""
// - Required terms: +bankrupt +discharge -> "bankrupt AND discharge"
// - Optional terms: bankrupt discharge -> "bankrupt OR discharge"
// - Mixed: +bankrupt surplus income -> "bankrupt AND (surplus OR income)"
// - Phrases: "surplus income" -> preserved as-is
func (p *QueryParser) BuildFTS5Query(tokens []Token) string {
	var requiredTerms []string
	var optionalTerms []string

	for _, token := range tokens {
		// Qualifiers are extracted separately, never matched as text
		if token.Type == TokenTypeQualifier {
			continue
		}

		// Stopwords are removed from plain terms only; an explicit +term
		// or quoted phrase always survives
		if token.Type == TokenTypeTerm && !token.Required && p.IsStopword(token.Value) {
			continue
		}

		var termValue string
		if token.Type == TokenTypePhrase {
			termValue = `"` + p.EscapeFTS5(token.Value) + `"`
		} else {
			escapedTerm := p.EscapeFTS5(token.Value)
			if p.needsQuoting(token.Value) {
				termValue = `"` + escapedTerm + `"`
			} else {
				termValue = escapedTerm
			}
		}

		if token.Required {
			requiredTerms = append(requiredTerms, termValue)
		} else {
			optionalTerms = append(optionalTerms, termValue)
		}
	}

	if len(requiredTerms) == 0 && len(optionalTerms) == 0 {
		return ""
	}

	var parts []string

	if len(requiredTerms) > 0 {
		parts = append(parts, strings.Join(requiredTerms, " AND "))
	}

	if len(optionalTerms) > 0 {
		optionalQuery := strings.Join(optionalTerms, " OR ")

		if len(requiredTerms) > 0 {
			optionalQuery = "(" + optionalQuery + ")"
		}

		parts = append(parts, optionalQuery)
	}

	return strings.Join(parts, " AND ")
}

// ExtractQualifiers extracts qualifier tokens from the token list.
// Recognized qualifiers:
// - kind: statute_section, directive, extracted_relationship
func (p *QueryParser) ExtractQualifiers(tokens []Token) map[string]string {
	qualifiers := make(map[string]string)

	for _, token := range tokens {
		if token.Type == TokenTypeQualifier {
			key, value := p.SplitQualifier(token.Value)
			if key != "" {
				switch key {
				case "kind", "type":
					qualifiers["kind"] = strings.ToLower(value)
				default:
					qualifiers[key] = value
				}
			}
		}
	}

	return qualifiers
}

// SearchTerms returns the lowercase text terms and phrases of a query,
// stopwords excluded, for matched-term annotation
func (p *QueryParser) SearchTerms(tokens []Token) []string {
	seen := make(map[string]bool)
	terms := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if token.Type == TokenTypeQualifier {
			continue
		}
		if token.Type == TokenTypeTerm && !token.Required && p.IsStopword(token.Value) {
			continue
		}
		value := strings.ToLower(token.Value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		terms = append(terms, value)
	}

	return terms
}
