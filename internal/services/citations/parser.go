package citations

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// locatorPattern matches a statute locator: dotted section numbers with an
// optional parenthesized subdivision trail, e.g. "68", "50.4", "168.1(1)(a)(ii)"
const locatorPattern = `[0-9]+(?:\.[0-9]+)*(?:\([0-9a-zA-Z]+\))*`

// Mention shapes all require a literal trigger keyword immediately before the
// locator token (at most one space or period in between), so incidental
// numeric text like dollar amounts and dates never matches. RE2 has no
// lookbehind, so each pattern captures a leading non-letter boundary and the
// extractor trims it back out of the reported span.
var (
	sectionRe    = regexp.MustCompile(`(?i)(^|[^A-Za-z])((?:section[ .]|s\.[ ]?|§[ ]?)(` + locatorPattern + `))`)
	subsectionRe = regexp.MustCompile(`(?i)(^|[^A-Za-z])(subsection[ .]?\(([0-9]+(?:\.[0-9]+)?)\))`)
	paragraphRe  = regexp.MustCompile(`(?i)(^|[^A-Za-z])(paragraph[ .]?\(([a-z]+(?:\.[0-9]+)?)\))`)
	directiveRe  = regexp.MustCompile(`(?i)(^|[^A-Za-z])(directive[ .](?:no\.[ ]?)?([0-9]+[a-zA-Z]?))`)

	bareLocatorRe   = regexp.MustCompile(`^` + locatorPattern + `$`)
	bareDirectiveRe = regexp.MustCompile(`^[0-9]+[A-Za-z]$`)
)

// mentionShape distinguishes how a raw match contributes to anchoring
type mentionShape int

const (
	shapeSection mentionShape = iota
	shapeSubsection
	shapeParagraph
	shapeDirective
)

type rawMatch struct {
	shape mentionShape
	raw   string // exact matched substring, boundary trimmed
	token string // captured locator token
	start int
	end   int
}

// CitationParser implements interfaces.CitationService using keyword-triggered
// regular expressions. The parser is stateless and safe for concurrent use.
type CitationParser struct {
	logger arbor.ILogger
}

// NewCitationParser creates a new citation parser
func NewCitationParser(logger arbor.ILogger) interfaces.CitationService {
	return &CitationParser{logger: logger}
}

// ExtractMentions scans text for citation mentions in byte-offset order.
//
// Bare "subsection (N)" and "paragraph (a)" mentions carry no section number
// of their own. They anchor to the nearest preceding section mention in the
// same text; failing that, to the source document's own locator (a bare
// subdivision is presumed to refer to the section currently being read);
// failing that too, the mention is emitted with an empty normalized locator
// and resolves as unresolved rather than guessing a wrong section.
func (p *CitationParser) ExtractMentions(text string, source *models.Document) []models.CitationMention {
	matches := collectMatches(text)

	sourceID := ""
	sourceLocator := ""
	if source != nil {
		sourceID = source.ID
		sourceLocator = source.Locator
	}

	mentions := make([]models.CitationMention, 0, len(matches))

	// anchor is the normalized locator of the most recent anchoring mention,
	// so "section 168.1 ... subsection (2) ... paragraph (a)" builds
	// "168.1" -> "168.1(2)" -> "168.1(2)(a)"
	anchor := ""

	for _, m := range matches {
		mention := models.CitationMention{
			SourceDocumentID: sourceID,
			RawText:          m.raw,
			Start:            m.start,
			End:              m.end,
		}

		switch m.shape {
		case shapeSection:
			mention.TargetKind = models.KindStatuteSection
			mention.NormalizedLocator = strings.TrimSpace(m.token)
			anchor = mention.NormalizedLocator

		case shapeSubsection:
			mention.TargetKind = models.KindStatuteSection
			// Subsections attach at the section root: "(2)" inside a
			// discussion of 168.1(1) means 168.1(2), not 168.1(1)(2)
			base := models.LocatorRoot(anchor)
			if base == "" {
				base = models.LocatorRoot(sourceLocator)
			}
			if base != "" {
				mention.NormalizedLocator = base + "(" + m.token + ")"
				anchor = mention.NormalizedLocator
			}

		case shapeParagraph:
			mention.TargetKind = models.KindStatuteSection
			// Paragraphs attach below the full current anchor: "(a)" inside
			// 168.1(1) means 168.1(1)(a)
			base := anchor
			if base == "" {
				base = sourceLocator
			}
			if base != "" {
				mention.NormalizedLocator = base + "(" + m.token + ")"
				anchor = mention.NormalizedLocator
			}

		case shapeDirective:
			mention.TargetKind = models.KindDirective
			mention.NormalizedLocator = strings.ToUpper(strings.TrimSpace(m.token))
		}

		mentions = append(mentions, mention)
	}

	return mentions
}

// ParseQueryLocator reports whether the entire query is a bare citation.
// Accepts naked locators ("168.1", "11R") and keyworded forms ("section 68",
// "Directive 11R") that span the whole query.
func (p *CitationParser) ParseQueryLocator(query string) (*models.CitationMention, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, false
	}

	// Naked directive number, e.g. "11R". Checked before the bare locator
	// pattern because a plain number like "168.1" is a statute section.
	if bareDirectiveRe.MatchString(q) {
		return &models.CitationMention{
			TargetKind:        models.KindDirective,
			RawText:           q,
			NormalizedLocator: strings.ToUpper(q),
			End:               len(q),
		}, true
	}

	if bareLocatorRe.MatchString(q) {
		return &models.CitationMention{
			TargetKind:        models.KindStatuteSection,
			RawText:           q,
			NormalizedLocator: q,
			End:               len(q),
		}, true
	}

	// Keyworded form: a single mention spanning the whole query
	mentions := p.ExtractMentions(q, nil)
	if len(mentions) == 1 && mentions[0].Start == 0 && mentions[0].End == len(q) && mentions[0].NormalizedLocator != "" {
		m := mentions[0]
		return &m, true
	}

	return nil, false
}

// NormalizeLocator canonicalizes a locator token. Re-normalizing a
// normalized locator yields itself.
func (p *CitationParser) NormalizeLocator(kind models.DocumentKind, raw string) string {
	s := strings.TrimSpace(raw)

	// Strip a keyword prefix when present
	lower := strings.ToLower(s)
	for _, prefix := range []string{"section", "s.", "§", "directive"} {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	if kind == models.KindDirective {
		return strings.ToUpper(s)
	}
	return s
}

// collectMatches runs every mention pattern and returns the union sorted by
// start offset, trimming the leading boundary capture out of each span
func collectMatches(text string) []rawMatch {
	var matches []rawMatch

	for _, pat := range []struct {
		re    *regexp.Regexp
		shape mentionShape
	}{
		{sectionRe, shapeSection},
		{subsectionRe, shapeSubsection},
		{paragraphRe, shapeParagraph},
		{directiveRe, shapeDirective},
	} {
		for _, idx := range pat.re.FindAllStringSubmatchIndex(text, -1) {
			// idx layout: full, boundary, mention, token
			start, end := idx[4], idx[5]
			tokStart, tokEnd := idx[6], idx[7]
			matches = append(matches, rawMatch{
				shape: pat.shape,
				raw:   text[start:end],
				token: text[tokStart:tokEnd],
				start: start,
				end:   end,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return matches[i].end > matches[j].end
	})

	return matches
}
