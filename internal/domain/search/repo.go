package search

import (
	"context"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

// Repository runs text search queries against the vocabulary store.
type Repository interface {
	// Search matches term against concept id/code/name within a domain's
	// allowed vocabularies, ranked by name-length proximity, capped at
	// MaxResults.
	Search(ctx context.Context, term string, domain vocabulary.Domain) ([]Result, error)

	// LabTestSearch matches term against standard LOINC lab tests and
	// returns each hit with its attribute relationships and panel count.
	LabTestSearch(ctx context.Context, term string) ([]LabTestResult, error)

	// LabTestPanels returns the LOINC panels containing any of the given
	// lab-test concepts.
	LabTestPanels(ctx context.Context, labTestIDs []int64) ([]PanelResult, error)
}
