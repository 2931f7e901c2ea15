package codeset

import (
	"context"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

// Repository runs per-anchor code-set queries against the vocabulary store.
type Repository interface {
	// GetDomain resolves an anchor's domain. found is false when the
	// concept id is not in the graph.
	GetDomain(ctx context.Context, conceptID int64) (domain vocabulary.Domain, found bool, err error)

	// BuildHierarchical expands the anchor's descendant closure and maps
	// every descendant to its terminal codes, applying the vocabulary
	// policy, Drug class restrictions, and the combo filter.
	BuildHierarchical(ctx context.Context, conceptID int64, domain vocabulary.Domain, combo ComboFilter) ([]Row, error)

	// BuildDirect maps only the anchor itself to its terminal codes, with
	// no hierarchy expansion.
	BuildDirect(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Row, error)

	// BuildLabTest follows direct-build semantics and additionally attaches
	// the LOINC attribute relationships of each result row.
	BuildLabTest(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Row, error)
}
