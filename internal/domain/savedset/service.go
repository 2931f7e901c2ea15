package savedset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codeset/codeset/internal/domain/codeset"
	"github.com/codeset/codeset/internal/platform/respond"
)

// Builder rebuilds a code set from its anchors. Satisfied by the code-set
// builder service; builds are deterministic so a rebuilt set matches the one
// the user saved.
type Builder interface {
	Build(ctx context.Context, conceptIDs []int64, combo codeset.ComboFilter, buildType codeset.BuildType) ([]codeset.Row, error)
}

// Service manages a user's saved code sets.
type Service struct {
	repo    Repository
	builder Builder
	logger  zerolog.Logger
}

// NewService creates a saved set service.
func NewService(repo Repository, builder Builder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, builder: builder, logger: logger}
}

// Save stores a code set for the user. Large OMOP sets are stored anchor-only
// and rebuilt on load.
func (s *Service) Save(ctx context.Context, userID string, req SaveRequest) (*SavedCodeSet, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", respond.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", respond.ErrInvalidInput)
	}
	if req.SourceType != SourceOMOP && req.SourceType != SourceUMLS {
		return nil, fmt.Errorf("%w: source_type must be %s or %s", respond.ErrInvalidInput, SourceOMOP, SourceUMLS)
	}

	set := &SavedCodeSet{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SourceType:  req.SourceType,
	}

	switch req.SourceType {
	case SourceOMOP:
		if len(req.ConceptIDs) == 0 {
			return nil, fmt.Errorf("%w: concept_ids are required for OMOP sets", respond.ErrInvalidInput)
		}
		buildType := req.BuildType
		if buildType == "" {
			buildType = codeset.BuildHierarchical
		}
		combo := req.ComboFilter
		if combo == "" {
			combo = codeset.ComboAll
		}
		if !buildType.Valid() || !combo.Valid() {
			return nil, fmt.Errorf("%w: invalid build_type or combo_filter", respond.ErrInvalidInput)
		}
		set.BuildType = buildType
		set.ComboFilter = combo
		set.AnchorIDs = req.ConceptIDs

		count, err := conceptCount(req.Concepts)
		if err != nil {
			return nil, fmt.Errorf("%w: concepts must be a JSON array", respond.ErrInvalidInput)
		}
		set.ConceptCount = count
		if count > 0 && count < MaterializeThreshold {
			set.Concepts = req.Concepts
			set.IsMaterialized = true
		}
	case SourceUMLS:
		if len(req.Concepts) == 0 {
			return nil, fmt.Errorf("%w: concepts are required for UMLS sets", respond.ErrInvalidInput)
		}
		count, err := conceptCount(req.Concepts)
		if err != nil {
			return nil, fmt.Errorf("%w: concepts must be a JSON array", respond.ErrInvalidInput)
		}
		set.Concepts = req.Concepts
		set.ConceptCount = count
		set.IsMaterialized = true
	}

	if err := s.repo.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	s.logger.Info().
		Str("set_id", set.ID.String()).
		Str("source_type", set.SourceType).
		Int("concept_count", set.ConceptCount).
		Bool("materialized", set.IsMaterialized).
		Msg("saved code set created")
	return set, nil
}

// Get loads a saved set, rebuilding anchor-only sets through the builder.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*SavedCodeSet, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", respond.ErrInvalidInput)
	}
	set, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	if set == nil {
		return nil, fmt.Errorf("%w: code set %s", respond.ErrNotFound, id)
	}
	if !set.IsMaterialized && set.SourceType == SourceOMOP {
		rows, err := s.builder.Build(ctx, set.AnchorIDs, set.ComboFilter, set.BuildType)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("encoding rebuilt set: %w", err)
		}
		set.Concepts = payload
		set.ConceptCount = len(rows)
		s.logger.Debug().
			Str("set_id", set.ID.String()).
			Int("concept_count", len(rows)).
			Msg("rebuilt saved code set from anchors")
	}
	return set, nil
}

// List returns the user's saved sets, newest first, without concept payloads.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", respond.ErrInvalidInput)
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	return items, nil
}

// Delete removes a saved set owned by the user.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user", respond.ErrInvalidInput)
	}
	found, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}
	if !found {
		return fmt.Errorf("%w: code set %s", respond.ErrNotFound, id)
	}
	return nil
}

func conceptCount(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, err
	}
	return len(items), nil
}
