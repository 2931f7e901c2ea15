package hierarchy

import (
	"context"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

// Repository provides read access to the precomputed concept closure.
type Repository interface {
	// GetConcept returns the concept for id, or (nil, nil) when the id is
	// not in the graph.
	GetConcept(ctx context.Context, conceptID int64) (*Concept, error)

	// Ancestors returns the concepts above conceptID (including its
	// self-row at zero steps), filtered to the domain's vocabulary policy
	// and, for Drug, to the ATC/RxNorm ancestor classes. StepsAway is
	// positive.
	Ancestors(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Node, error)

	// Descendants returns the concepts below conceptID (including its
	// self-row), same vocabulary policy, Drug restricted to RxNorm
	// hierarchy classes only. StepsAway is negative or zero.
	Descendants(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Node, error)
}
