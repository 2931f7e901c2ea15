package codeset

import "strconv"

// ComboFilter narrows Drug-domain rows by their combination classification.
type ComboFilter string

const (
	ComboAll         ComboFilter = "ALL"
	ComboSingle      ComboFilter = "SINGLE"
	ComboCombination ComboFilter = "COMBINATION"
)

// Valid reports whether f is a recognized filter value.
func (f ComboFilter) Valid() bool {
	return f == ComboAll || f == ComboSingle || f == ComboCombination
}

// BuildType selects the expansion strategy for a build.
type BuildType string

const (
	BuildHierarchical BuildType = "hierarchical"
	BuildDirect       BuildType = "direct"
	BuildLabTest      BuildType = "labtest"
)

// Valid reports whether t is a recognized build type.
func (t BuildType) Valid() bool {
	return t == BuildHierarchical || t == BuildDirect || t == BuildLabTest
}

// Relationship is a typed attribute of a lab-test result row, e.g. the LOINC
// component or scale of a test.
type Relationship struct {
	RelationshipID string `json:"relationship_id"`
	ValueName      string `json:"value_name"`
}

// Row is one terminal code in a built code set. JSON field names follow the
// wire format the front-end consumes.
type Row struct {
	RootConceptName string         `json:"root_concept_name"`
	ChildVocabulary string         `json:"child_vocabulary_id"`
	ChildCode       string         `json:"child_code"`
	ChildName       string         `json:"child_name"`
	ChildConceptID  int64          `json:"child_concept_id"`
	ConceptClassID  string         `json:"concept_class_id"`
	CombinationFlag string         `json:"combinationyesno,omitempty"`
	DoseForm        string         `json:"dose_form,omitempty"`
	DoseFormGroup   string         `json:"dfg_name,omitempty"`
	Relationships   []Relationship `json:"relationships,omitempty"`
}

// dedupKey identifies a row for cross-anchor deduplication.
func (r Row) dedupKey() string {
	return r.ChildVocabulary + "|" + r.ChildCode + "|" + r.ChildName + "|" +
		strconv.FormatInt(r.ChildConceptID, 10) + "|" + r.ConceptClassID
}

// Request is the codeset endpoint payload.
type Request struct {
	ConceptIDs  []int64     `json:"concept_ids"`
	ComboFilter ComboFilter `json:"combo_filter"`
	BuildType   BuildType   `json:"build_type"`
}
