package codeset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/codeset/codeset/internal/platform/cache"
	"github.com/codeset/codeset/internal/platform/respond"
)

// maxConcurrentAnchors bounds the per-anchor query fan-out.
const maxConcurrentAnchors = 4

// cacheTTL is how long a built code set stays cached. Builds are
// deterministic over vocabulary data that only changes on reload.
const cacheTTL = 10 * time.Minute

// Service builds deduplicated code sets from anchor concepts.
type Service struct {
	repo   Repository
	cache  cache.Cache
	logger zerolog.Logger
}

// NewService creates a code-set service.
func NewService(repo Repository, c cache.Cache, logger zerolog.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{repo: repo, cache: c, logger: logger}
}

// Build computes the full code set for the given anchors. Anchors are
// processed independently and concurrently; unknown concept ids are logged
// and skipped rather than failing the batch. The concatenated results are
// deduplicated by (vocabulary, code, name, concept id, class), keeping the
// first occurrence in anchor order.
func (s *Service) Build(ctx context.Context, conceptIDs []int64, combo ComboFilter, buildType BuildType) ([]Row, error) {
	if len(conceptIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one concept ID is required", respond.ErrInvalidInput)
	}
	for _, id := range conceptIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: concept IDs must be positive integers", respond.ErrInvalidInput)
		}
	}
	if combo == "" {
		combo = ComboAll
	}
	if !combo.Valid() {
		return nil, fmt.Errorf("%w: unknown combo filter %q", respond.ErrInvalidInput, combo)
	}
	if buildType == "" {
		buildType = BuildHierarchical
	}
	if !buildType.Valid() {
		return nil, fmt.Errorf("%w: unknown build type %q", respond.ErrInvalidInput, buildType)
	}

	key := cacheKey(conceptIDs, combo, buildType)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var rows []Row
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
	}

	// Fan out one build per anchor; perAnchor keeps results indexed by
	// anchor position so the concatenation order is stable regardless of
	// completion order.
	perAnchor := make([][]Row, len(conceptIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnchors)
	for i, id := range conceptIDs {
		i, id := i, id
		g.Go(func() error {
			rows, err := s.buildAnchor(gctx, id, combo, buildType)
			if err != nil {
				return err
			}
			perAnchor[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", respond.ErrUpstream, err)
	}

	var all []Row
	for _, rows := range perAnchor {
		all = append(all, rows...)
	}
	deduped := deduplicate(all)
	s.logger.Debug().
		Int("anchors", len(conceptIDs)).
		Int("rows", len(all)).
		Int("unique", len(deduped)).
		Str("build_type", string(buildType)).
		Msg("code set built")

	if encoded, err := json.Marshal(deduped); err == nil {
		s.cache.Set(ctx, key, encoded, cacheTTL)
	}
	return deduped, nil
}

// buildAnchor runs the per-anchor query. A missing concept is a skip, not a
// failure.
func (s *Service) buildAnchor(ctx context.Context, conceptID int64, combo ComboFilter, buildType BuildType) ([]Row, error) {
	domain, found, err := s.repo.GetDomain(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Warn().Int64("concept_id", conceptID).Msg("anchor concept not found, skipping")
		return nil, nil
	}

	switch buildType {
	case BuildDirect:
		return s.repo.BuildDirect(ctx, conceptID, domain)
	case BuildLabTest:
		return s.repo.BuildLabTest(ctx, conceptID, domain)
	default:
		return s.repo.BuildHierarchical(ctx, conceptID, domain, combo)
	}
}

// deduplicate collapses rows sharing a dedup key, keeping first occurrence.
func deduplicate(rows []Row) []Row {
	seen := make(map[string]bool, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		k := r.dedupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// cacheKey includes the anchors in request order: dedup keeps the first
// occurrence, so permuted anchor lists are distinct builds with distinct
// root/dose-form fields on collided rows.
func cacheKey(conceptIDs []int64, combo ComboFilter, buildType BuildType) string {
	parts := make([]string, len(conceptIDs))
	for i, id := range conceptIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "codeset:" + string(buildType) + ":" + string(combo) + ":" + strings.Join(parts, ",")
}
