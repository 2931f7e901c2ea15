package search

import "github.com/codeset/codeset/internal/domain/vocabulary"

// Result is one concept search hit. The standard_* fields come from the
// concept's 'Maps to' standard representative and are empty when the matched
// concept has no standard mapping.
type Result struct {
	StandardName       string `json:"standard_name,omitempty"`
	StdConceptID       int64  `json:"std_concept_id,omitempty"`
	StandardCode       string `json:"standard_code,omitempty"`
	StandardVocabulary string `json:"standard_vocabulary,omitempty"`
	ConceptClassID     string `json:"concept_class_id,omitempty"`
	SearchResult       string `json:"search_result"`
	SearchedCode       string `json:"searched_code"`
	SearchedVocabulary string `json:"searched_vocabulary"`
	SearchedClassID    string `json:"searched_concept_class_id"`
	SearchedTerm       string `json:"searched_term"`
}

// LabTestResult is one lab-test search hit with its LOINC attributes.
type LabTestResult struct {
	LabTestType    string `json:"lab_test_type"`
	StdConceptID   int64  `json:"std_concept_id"`
	SearchResult   string `json:"search_result"`
	SearchedCode   string `json:"searched_code"`
	SearchedClass  string `json:"searched_concept_class_id"`
	VocabularyID   string `json:"vocabulary_id"`
	Property       string `json:"property,omitempty"`
	Scale          string `json:"scale,omitempty"`
	System         string `json:"system,omitempty"`
	TimeAspect     string `json:"time,omitempty"`
	PanelCount     int64  `json:"panel_count"`
}

// PanelResult is a LOINC panel containing one of the requested lab tests.
type PanelResult struct {
	LabTestType    string `json:"lab_test_type"`
	StdConceptID   int64  `json:"std_concept_id"`
	PanelConceptID int64  `json:"panel_concept_id"`
	SearchResult   string `json:"search_result"`
	SearchedCode   string `json:"searched_code"`
	SearchedClass  string `json:"searched_concept_class_id"`
	VocabularyID   string `json:"vocabulary_id"`
}

// Request is the concept search payload.
type Request struct {
	SearchTerm string            `json:"searchterm"`
	DomainID   vocabulary.Domain `json:"domain_id"`
}

// LabTestRequest is the lab-test search payload.
type LabTestRequest struct {
	SearchTerm string `json:"searchterm"`
}

// PanelRequest is the lab-test panel search payload.
type PanelRequest struct {
	LabTestConceptIDs []int64 `json:"lab_test_concept_ids"`
}

// MaxResults caps every search response.
const MaxResults = 75
