package hierarchy

import "github.com/codeset/codeset/internal/domain/vocabulary"

// Concept is the vocabulary graph node metadata needed to anchor a hierarchy.
type Concept struct {
	ConceptID      int64             `db:"concept_id" json:"concept_id"`
	ConceptName    string            `db:"concept_name" json:"concept_name"`
	DomainID       vocabulary.Domain `db:"domain_id" json:"domain_id"`
	VocabularyID   string            `db:"vocabulary_id" json:"vocabulary_id"`
	ConceptClassID string            `db:"concept_class_id" json:"concept_class_id"`
}

// Node is one row of a resolved hierarchy. StepsAway is positive for
// ancestors, negative for descendants, and zero for the queried concept
// itself. RootTerm repeats the queried concept's name on every row so the
// UI can label the tree without a second lookup.
type Node struct {
	StepsAway      int32  `db:"steps_away" json:"steps_away"`
	ConceptName    string `db:"concept_name" json:"concept_name"`
	ConceptID      int64  `db:"hierarchy_concept_id" json:"hierarchy_concept_id"`
	ConceptCode    string `db:"concept_code" json:"concept_code"`
	VocabularyID   string `db:"vocabulary_id" json:"vocabulary_id"`
	ConceptClassID string `db:"concept_class_id" json:"concept_class_id"`
	RootTerm       string `db:"root_term" json:"root_term"`
}

// Request is the hierarchy endpoint payload.
type Request struct {
	ConceptID int64 `json:"concept_id"`
}
