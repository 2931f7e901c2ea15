package codeset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed code-set repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) GetDomain(ctx context.Context, conceptID int64) (vocabulary.Domain, bool, error) {
	var domain string
	err := r.pool.QueryRow(ctx,
		`SELECT domain_id FROM concept WHERE concept_id = $1`, conceptID).Scan(&domain)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get domain of %d: %w", conceptID, err)
	}
	return vocabulary.Domain(domain), true, nil
}

// ingredientCountCTE classifies each descendant by its number of
// Ingredient-class ancestors; the outer query overrides the result with
// COMBINATION whenever the child itself is a Multiple Ingredients concept.
const ingredientCountCTE = `
	SELECT ca2.descendant_concept_id,
	       CASE WHEN COUNT(*) > 1 THEN 'COMBINATION'
	            WHEN COUNT(*) = 1 THEN 'SINGLE'
	       END AS combinationyesno
	FROM concept_ancestor ca2
	JOIN concept ia ON ia.concept_id = ca2.ancestor_concept_id
	WHERE ia.concept_class_id = 'Ingredient'
	GROUP BY ca2.descendant_concept_id`

func (r *repoPG) BuildHierarchical(ctx context.Context, conceptID int64, domain vocabulary.Domain, combo ComboFilter) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		WITH combo AS (`+ingredientCountCTE+`)
		SELECT c.concept_name,
		       d.vocabulary_id, d.concept_code, d.concept_name, d.concept_id, d.concept_class_id,
		       CASE WHEN d.concept_class_id = 'Multiple Ingredients' THEN 'COMBINATION'
		            ELSE combo.combinationyesno END,
		       frm.concept_name
		FROM concept c
		JOIN concept_ancestor ca
		  ON ca.ancestor_concept_id = c.concept_id
		JOIN concept_relationship cr
		  ON cr.concept_id_2 = ca.descendant_concept_id
		 AND cr.relationship_id = 'Maps to'
		JOIN concept d
		  ON d.concept_id = cr.concept_id_1
		 AND d.domain_id = $2
		 AND d.vocabulary_id = ANY($3)
		LEFT JOIN concept_relationship f
		  ON f.concept_id_1 = ca.descendant_concept_id
		 AND f.relationship_id = 'RxNorm has dose form'
		LEFT JOIN concept frm
		  ON frm.concept_id = f.concept_id_2
		LEFT JOIN combo
		  ON combo.descendant_concept_id = ca.descendant_concept_id
		WHERE c.concept_id = $1
		  AND (
		       d.domain_id <> 'Drug'
		    OR (
		         ($4 = 'ALL'
		          OR CASE WHEN d.concept_class_id = 'Multiple Ingredients' THEN 'COMBINATION'
		                  ELSE combo.combinationyesno END = $4)
		         AND d.concept_class_id = ANY($5)
		       )
		  )
		ORDER BY d.vocabulary_id DESC, ca.min_levels_of_separation ASC`,
		conceptID, string(domain), vocabulary.AllowedVocabularies(domain),
		string(combo), vocabulary.DrugChildClasses)
	if err != nil {
		return nil, fmt.Errorf("hierarchical build for %d: %w", conceptID, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *repoPG) BuildDirect(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		WITH combo AS (`+ingredientCountCTE+`)
		SELECT c.concept_name,
		       d.vocabulary_id, d.concept_code, d.concept_name, d.concept_id, d.concept_class_id,
		       CASE WHEN d.concept_class_id = 'Multiple Ingredients' THEN 'COMBINATION'
		            ELSE combo.combinationyesno END,
		       frm.concept_name
		FROM concept c
		JOIN concept_relationship cr
		  ON cr.concept_id_2 = c.concept_id
		 AND cr.relationship_id = 'Maps to'
		JOIN concept d
		  ON d.concept_id = cr.concept_id_1
		 AND d.domain_id = $2
		 AND d.vocabulary_id = ANY($3)
		LEFT JOIN concept_relationship f
		  ON f.concept_id_1 = c.concept_id
		 AND f.relationship_id = 'RxNorm has dose form'
		LEFT JOIN concept frm
		  ON frm.concept_id = f.concept_id_2
		LEFT JOIN combo
		  ON combo.descendant_concept_id = c.concept_id
		WHERE c.concept_id = $1
		  AND (d.domain_id <> 'Drug' OR d.concept_class_id = ANY($4))
		ORDER BY d.vocabulary_id DESC`,
		conceptID, string(domain), vocabulary.AllowedVocabularies(domain),
		vocabulary.DrugChildClasses)
	if err != nil {
		return nil, fmt.Errorf("direct build for %d: %w", conceptID, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// labTestRelationships are the LOINC attribute edges attached to lab-test
// result rows.
var labTestRelationships = []string{
	"Has component", "Has property", "Has scale type", "Has system", "Has time aspect",
}

func (r *repoPG) BuildLabTest(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Row, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.concept_name,
		       d.vocabulary_id, d.concept_code, d.concept_name, d.concept_id, d.concept_class_id,
		       rel.rels
		FROM concept c
		JOIN concept_relationship cr
		  ON cr.concept_id_2 = c.concept_id
		 AND cr.relationship_id = 'Maps to'
		JOIN concept d
		  ON d.concept_id = cr.concept_id_1
		 AND d.domain_id = $2
		 AND d.vocabulary_id = ANY($3)
		LEFT JOIN LATERAL (
		  SELECT json_agg(json_build_object(
		           'relationship_id', rr.relationship_id,
		           'value_name', v.concept_name)) AS rels
		  FROM concept_relationship rr
		  JOIN concept v ON v.concept_id = rr.concept_id_2
		  WHERE rr.concept_id_1 = d.concept_id
		    AND rr.relationship_id = ANY($4)
		) rel ON true
		WHERE c.concept_id = $1
		ORDER BY d.vocabulary_id DESC`,
		conceptID, string(domain), vocabulary.AllowedVocabularies(domain),
		labTestRelationships)
	if err != nil {
		return nil, fmt.Errorf("lab test build for %d: %w", conceptID, err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var row Row
		var relsJSON []byte
		if err := rows.Scan(&row.RootConceptName, &row.ChildVocabulary, &row.ChildCode,
			&row.ChildName, &row.ChildConceptID, &row.ConceptClassID, &relsJSON); err != nil {
			return nil, err
		}
		if len(relsJSON) > 0 {
			if err := json.Unmarshal(relsJSON, &row.Relationships); err != nil {
				return nil, fmt.Errorf("parse relationships for %d: %w", row.ChildConceptID, err)
			}
		}
		if row.Relationships == nil {
			row.Relationships = []Relationship{}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// scanRows reads hierarchical/direct result rows, deriving the dose-form
// group in Go rather than in a SQL CASE ladder.
func scanRows(rows pgx.Rows) ([]Row, error) {
	var results []Row
	for rows.Next() {
		var row Row
		var comboFlag, doseForm *string
		if err := rows.Scan(&row.RootConceptName, &row.ChildVocabulary, &row.ChildCode,
			&row.ChildName, &row.ChildConceptID, &row.ConceptClassID, &comboFlag, &doseForm); err != nil {
			return nil, err
		}
		if comboFlag != nil {
			row.CombinationFlag = *comboFlag
		}
		if doseForm != nil {
			row.DoseForm = *doseForm
			row.DoseFormGroup = vocabulary.DoseFormGroup(*doseForm)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
