package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed search repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Search(ctx context.Context, term string, domain vocabulary.Domain) ([]Result, error) {
	// Candidates match on the concatenation of id, code, and name so users
	// can paste any of the three. Retired codes (invalid_reason set) are
	// excluded; candidates without a standard mapping still come back with
	// the standard_* columns null.
	rows, err := r.pool.Query(ctx, `
		SELECT s.concept_name, s.concept_id, s.concept_code, s.vocabulary_id, s.concept_class_id,
		       c.concept_name, c.concept_code, c.vocabulary_id, c.concept_class_id,
		       c.concept_id::text || ' ' || c.concept_code || ' ' || c.concept_name
		FROM concept c
		LEFT JOIN concept_relationship cr
		  ON cr.concept_id_1 = c.concept_id
		 AND cr.relationship_id = 'Maps to'
		LEFT JOIN concept s
		  ON s.concept_id = cr.concept_id_2
		 AND s.standard_concept = 'S'
		WHERE upper(c.concept_id::text || ' ' || c.concept_code || ' ' || c.concept_name)
		        LIKE '%' || upper($1) || '%'
		  AND c.domain_id = $2
		  AND c.vocabulary_id = ANY($3)
		  AND (c.domain_id <> 'Drug' OR c.concept_class_id = ANY($4))
		  AND (c.invalid_reason IS NULL OR c.invalid_reason = '')
		ORDER BY abs(length($1) - length(c.concept_name)) ASC
		LIMIT $5`,
		term, string(domain), vocabulary.AllowedVocabularies(domain),
		vocabulary.DrugSearchClasses, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("concept search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var stdName, stdCode, stdVocab, stdClass *string
		var stdID *int64
		if err := rows.Scan(&stdName, &stdID, &stdCode, &stdVocab, &stdClass,
			&res.SearchResult, &res.SearchedCode, &res.SearchedVocabulary,
			&res.SearchedClassID, &res.SearchedTerm); err != nil {
			return nil, err
		}
		if stdName != nil {
			res.StandardName = *stdName
		}
		if stdID != nil {
			res.StdConceptID = *stdID
		}
		if stdCode != nil {
			res.StandardCode = *stdCode
		}
		if stdVocab != nil {
			res.StandardVocabulary = *stdVocab
		}
		if stdClass != nil {
			res.ConceptClassID = *stdClass
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *repoPG) LabTestSearch(ctx context.Context, term string) ([]LabTestResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.concept_id, c.concept_name, c.concept_code, c.concept_class_id, c.vocabulary_id,
		       prop.concept_name, scl.concept_name, sys.concept_name, tm.concept_name,
		       (SELECT count(*) FROM concept_relationship pc
		        WHERE pc.concept_id_2 = c.concept_id
		          AND pc.relationship_id = 'Panel contains')
		FROM concept c
		LEFT JOIN concept_relationship rp
		  ON rp.concept_id_1 = c.concept_id AND rp.relationship_id = 'Has property'
		LEFT JOIN concept prop ON prop.concept_id = rp.concept_id_2
		LEFT JOIN concept_relationship rs
		  ON rs.concept_id_1 = c.concept_id AND rs.relationship_id = 'Has scale type'
		LEFT JOIN concept scl ON scl.concept_id = rs.concept_id_2
		LEFT JOIN concept_relationship ry
		  ON ry.concept_id_1 = c.concept_id AND ry.relationship_id = 'Has system'
		LEFT JOIN concept sys ON sys.concept_id = ry.concept_id_2
		LEFT JOIN concept_relationship rt
		  ON rt.concept_id_1 = c.concept_id AND rt.relationship_id = 'Has time aspect'
		LEFT JOIN concept tm ON tm.concept_id = rt.concept_id_2
		WHERE c.domain_id = 'Measurement'
		  AND c.vocabulary_id = 'LOINC'
		  AND c.concept_class_id = 'Lab Test'
		  AND c.standard_concept = 'S'
		  AND upper(c.concept_code || ' ' || c.concept_name) LIKE '%' || upper($1) || '%'
		ORDER BY abs(length($1) - length(c.concept_name)) ASC
		LIMIT $2`,
		term, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("lab test search: %w", err)
	}
	defer rows.Close()

	var results []LabTestResult
	for rows.Next() {
		res := LabTestResult{LabTestType: "Lab Test"}
		var prop, scale, system, timeAspect *string
		if err := rows.Scan(&res.StdConceptID, &res.SearchResult, &res.SearchedCode,
			&res.SearchedClass, &res.VocabularyID,
			&prop, &scale, &system, &timeAspect, &res.PanelCount); err != nil {
			return nil, err
		}
		if prop != nil {
			res.Property = *prop
		}
		if scale != nil {
			res.Scale = *scale
		}
		if system != nil {
			res.System = *system
		}
		if timeAspect != nil {
			res.TimeAspect = *timeAspect
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *repoPG) LabTestPanels(ctx context.Context, labTestIDs []int64) ([]PanelResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pc.concept_id_2, p.concept_id, p.concept_name, p.concept_code,
		       p.concept_class_id, p.vocabulary_id
		FROM concept_relationship pc
		JOIN concept p ON p.concept_id = pc.concept_id_1
		WHERE pc.relationship_id = 'Panel contains'
		  AND pc.concept_id_2 = ANY($1)
		ORDER BY p.concept_name ASC`,
		labTestIDs)
	if err != nil {
		return nil, fmt.Errorf("lab test panel search: %w", err)
	}
	defer rows.Close()

	var results []PanelResult
	for rows.Next() {
		res := PanelResult{LabTestType: "Panel"}
		if err := rows.Scan(&res.StdConceptID, &res.PanelConceptID, &res.SearchResult,
			&res.SearchedCode, &res.SearchedClass, &res.VocabularyID); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
