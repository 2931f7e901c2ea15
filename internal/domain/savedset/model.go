package savedset

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/codeset/codeset/internal/domain/codeset"
)

// Source types a saved set can come from. OMOP sets are built from the local
// vocabulary tables; UMLS sets are imported verbatim from the UMLS proxy.
const (
	SourceOMOP = "OMOP"
	SourceUMLS = "UMLS"
)

// MaterializeThreshold is the concept count above which a set is stored
// anchor-only and rebuilt on load instead of persisting every row.
const MaterializeThreshold = 500

// SavedCodeSet is a user's saved code set. Concepts holds the materialized
// rows; for large OMOP sets it is empty in storage and filled on load.
type SavedCodeSet struct {
	ID             uuid.UUID           `json:"id"`
	UserID         string              `json:"-"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	SourceType     string              `json:"source_type"`
	BuildType      codeset.BuildType   `json:"build_type,omitempty"`
	ComboFilter    codeset.ComboFilter `json:"combo_filter,omitempty"`
	AnchorIDs      []int64             `json:"concept_ids,omitempty"`
	Concepts       json.RawMessage     `json:"concepts,omitempty"`
	ConceptCount   int                 `json:"concept_count"`
	IsMaterialized bool                `json:"is_materialized"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// SaveRequest is the payload for creating a saved code set.
type SaveRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	SourceType  string              `json:"source_type"`
	BuildType   codeset.BuildType   `json:"build_type"`
	ComboFilter codeset.ComboFilter `json:"combo_filter"`
	ConceptIDs  []int64             `json:"concept_ids"`
	Concepts    json.RawMessage     `json:"concepts"`
}

// Summary is the list view of a saved set, without the concept payload.
type Summary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	SourceType     string    `json:"source_type"`
	ConceptCount   int       `json:"concept_count"`
	IsMaterialized bool      `json:"is_materialized"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
