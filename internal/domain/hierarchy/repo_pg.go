package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeset/codeset/internal/domain/vocabulary"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed hierarchy repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) GetConcept(ctx context.Context, conceptID int64) (*Concept, error) {
	var c Concept
	err := r.pool.QueryRow(ctx,
		`SELECT concept_id, concept_name, domain_id, vocabulary_id, concept_class_id
		 FROM concept WHERE concept_id = $1`, conceptID).
		Scan(&c.ConceptID, &c.ConceptName, &c.DomainID, &c.VocabularyID, &c.ConceptClassID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get concept %d: %w", conceptID, err)
	}
	return &c, nil
}

func (r *repoPG) Ancestors(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Node, error) {
	// The Drug branch admits ATC classification levels above RxNorm drugs;
	// the descendant query deliberately does not mirror this.
	rows, err := r.pool.Query(ctx,
		`SELECT ca.min_levels_of_separation,
		        a.concept_name, a.concept_id, a.concept_code, a.vocabulary_id, a.concept_class_id
		 FROM concept_ancestor ca
		 JOIN concept a ON a.concept_id = ca.ancestor_concept_id
		 WHERE ca.descendant_concept_id = $1
		   AND a.vocabulary_id = ANY($2)
		   AND ($3 <> 'Drug'
		        OR (a.vocabulary_id = 'ATC'    AND a.concept_class_id = ANY($4))
		        OR (a.vocabulary_id = 'RxNorm' AND a.concept_class_id = ANY($5)))`,
		conceptID, vocabulary.AllowedVocabularies(domain), string(domain),
		vocabulary.DrugATCAncestorClasses, vocabulary.DrugRxNormHierarchyClasses)
	if err != nil {
		return nil, fmt.Errorf("ancestors of %d: %w", conceptID, err)
	}
	defer rows.Close()
	return scanNodes(rows, 1)
}

func (r *repoPG) Descendants(ctx context.Context, conceptID int64, domain vocabulary.Domain) ([]Node, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ca.min_levels_of_separation,
		        a.concept_name, a.concept_id, a.concept_code, a.vocabulary_id, a.concept_class_id
		 FROM concept_ancestor ca
		 JOIN concept a ON a.concept_id = ca.descendant_concept_id
		 WHERE ca.ancestor_concept_id = $1
		   AND a.vocabulary_id = ANY($2)
		   AND ($3 <> 'Drug'
		        OR (a.vocabulary_id = 'RxNorm' AND a.concept_class_id = ANY($4)))`,
		conceptID, vocabulary.AllowedVocabularies(domain), string(domain),
		vocabulary.DrugRxNormHierarchyClasses)
	if err != nil {
		return nil, fmt.Errorf("descendants of %d: %w", conceptID, err)
	}
	defer rows.Close()
	return scanNodes(rows, -1)
}

// scanNodes reads closure rows, applying sign to the separation so ancestors
// come out positive and descendants negative.
func scanNodes(rows pgx.Rows, sign int32) ([]Node, error) {
	var nodes []Node
	for rows.Next() {
		var n Node
		var sep int32
		if err := rows.Scan(&sep, &n.ConceptName, &n.ConceptID, &n.ConceptCode, &n.VocabularyID, &n.ConceptClassID); err != nil {
			return nil, err
		}
		n.StepsAway = sign * sep
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
