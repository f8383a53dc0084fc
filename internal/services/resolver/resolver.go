package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// ReferenceResolver implements interfaces.ResolverService with breadth-first
// expansion over the corpus store.
//
// The visited set and the depth bound are enforced here unconditionally, not
// left to caller discipline: unbounded "follow all cross-references" is the
// known runaway failure mode for circular statute references (e.g. a section
// whose text cites a section that cites it back).
type ReferenceResolver struct {
	storage   interfaces.CorpusStorage
	citations interfaces.CitationService
	logger    arbor.ILogger
}

// NewReferenceResolver creates a new reference resolver
func NewReferenceResolver(
	storage interfaces.CorpusStorage,
	citations interfaces.CitationService,
	logger arbor.ILogger,
) interfaces.ResolverService {
	return &ReferenceResolver{
		storage:   storage,
		citations: citations,
		logger:    logger,
	}
}

// Resolve expands the given mentions into a deduplicated, depth-bounded
// closure. Mentions are processed in input order and discovered documents in
// discovery order, so the output is deterministic and depth-ordered.
func (r *ReferenceResolver) Resolve(
	ctx context.Context,
	mentions []models.CitationMention,
	maxDepth int,
) ([]*models.ResolutionNode, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("maxDepth must be non-negative, got %d", maxDepth)
	}

	nodes := make([]*models.ResolutionNode, 0, len(mentions))

	// Depth counts hops from the originating result: its own mentions
	// resolve at depth 1, so maxDepth 0 means no following at all
	if maxDepth == 0 {
		return nodes, nil
	}
	visited := make(map[string]bool)

	type frontierEntry struct {
		mention models.CitationMention
		depth   int
	}

	frontier := make([]frontierEntry, 0, len(mentions))
	for _, m := range mentions {
		frontier = append(frontier, frontierEntry{mention: m, depth: 1})
	}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := frontier[0]
		frontier = frontier[1:]
		mention := entry.mention

		// A mention that could not be anchored has no locator to look up;
		// it is recorded as unresolved, once
		if mention.NormalizedLocator == "" {
			key := "unanchored/" + mention.RawText
			if visited[key] {
				continue
			}
			visited[key] = true
			nodes = append(nodes, &models.ResolutionNode{
				Resolved: false,
				Depth:    entry.depth,
				Via:      cloneMention(mention),
			})
			continue
		}

		// First visit wins: a mention resolving to an already-visited
		// document is recorded once, at its shallowest depth
		if visited[mention.Key()] {
			continue
		}
		visited[mention.Key()] = true

		doc, err := r.storage.GetByLocator(ctx, mention.TargetKind, mention.NormalizedLocator)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				// Reference to missing source material - reported, never dropped
				nodes = append(nodes, &models.ResolutionNode{
					Resolved: false,
					Depth:    entry.depth,
					Via:      cloneMention(mention),
				})
				continue
			}
			return nil, fmt.Errorf("resolve %s %s: %w", mention.TargetKind, mention.NormalizedLocator, err)
		}

		nodes = append(nodes, &models.ResolutionNode{
			Document: doc,
			Resolved: true,
			Depth:    entry.depth,
			Via:      cloneMention(mention),
		})

		// Expand the resolved document's own references at depth+1
		if entry.depth < maxDepth {
			for _, next := range r.citations.ExtractMentions(doc.Text, doc) {
				frontier = append(frontier, frontierEntry{mention: next, depth: entry.depth + 1})
			}
		}
	}

	if r.logger != nil {
		r.logger.Debug().
			Int("mentions", len(mentions)).
			Int("nodes", len(nodes)).
			Int("max_depth", maxDepth).
			Msg("Reference resolution completed")
	}

	return nodes, nil
}

func cloneMention(m models.CitationMention) *models.CitationMention {
	clone := m
	return &clone
}
