package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"github.com/codeset/codeset/internal/platform/respond"
)

// Service resolves concept hierarchies.
type Service struct {
	repo Repository
}

// NewService creates a hierarchy service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the filtered ancestor/descendant tree around conceptID,
// sorted by steps_away descending (farthest ancestor first, then the concept
// itself, then descendants nearest to farthest).
func (s *Service) Resolve(ctx context.Context, conceptID int64) ([]Node, error) {
	if conceptID <= 0 {
		return nil, fmt.Errorf("%w: valid concept ID is required", respond.ErrInvalidInput)
	}

	concept, err := s.repo.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	if concept == nil {
		return nil, fmt.Errorf("%w: concept %d", respond.ErrNotFound, conceptID)
	}

	ancestors, err := s.repo.Ancestors(ctx, conceptID, concept.DomainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	descendants, err := s.repo.Descendants(ctx, conceptID, concept.DomainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}

	// The closure's self-referential row shows up in both directions at
	// zero steps; union semantics keep it once.
	type key struct {
		id    int64
		steps int32
	}
	seen := make(map[key]bool, len(ancestors)+len(descendants))
	nodes := make([]Node, 0, len(ancestors)+len(descendants))
	for _, n := range append(ancestors, descendants...) {
		k := key{n.ConceptID, n.StepsAway}
		if seen[k] {
			continue
		}
		seen[k] = true
		n.RootTerm = concept.ConceptName
		nodes = append(nodes, n)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].StepsAway != nodes[j].StepsAway {
			return nodes[i].StepsAway > nodes[j].StepsAway
		}
		return nodes[i].ConceptID < nodes[j].ConceptID
	})
	return nodes, nil
}
