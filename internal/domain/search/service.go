package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeset/codeset/internal/domain/vocabulary"
	"github.com/codeset/codeset/internal/platform/respond"
)

// Service validates and runs vocabulary searches.
type Service struct {
	repo Repository
}

// NewService creates a search service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search runs a concept search within a domain.
func (s *Service) Search(ctx context.Context, term string, domain vocabulary.Domain) ([]Result, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, fmt.Errorf("%w: search term must be at least 2 characters", respond.ErrInvalidInput)
	}
	if domain == "" {
		return nil, fmt.Errorf("%w: domain ID is required", respond.ErrInvalidInput)
	}
	if !vocabulary.KnownDomain(domain) {
		return nil, fmt.Errorf("%w: unrecognized domain %q", respond.ErrInvalidInput, domain)
	}
	results, err := s.repo.Search(ctx, term, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results, nil
}

// LabTestSearch runs a lab-test search over standard LOINC tests.
func (s *Service) LabTestSearch(ctx context.Context, term string) ([]LabTestResult, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, fmt.Errorf("%w: search term must be at least 2 characters", respond.ErrInvalidInput)
	}
	results, err := s.repo.LabTestSearch(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	return results, nil
}

// LabTestPanels finds the LOINC panels containing the given lab tests.
func (s *Service) LabTestPanels(ctx context.Context, labTestIDs []int64) ([]PanelResult, error) {
	if len(labTestIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one lab test concept ID is required", respond.ErrInvalidInput)
	}
	for _, id := range labTestIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: concept IDs must be positive integers", respond.ErrInvalidInput)
		}
	}
	results, err := s.repo.LabTestPanels(ctx, labTestIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	return results, nil
}
