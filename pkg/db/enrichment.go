package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yumyai/termclust/pkg/model"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// GeneSeparator joins gene ids in the gene_ids column, as enrichment tools write them.
const GeneSeparator = "/"

const schema = `
	CREATE TABLE IF NOT EXISTS datasets (
		dataset_id TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		analysis   TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS enrichment_terms (
		dataset_id   TEXT NOT NULL REFERENCES datasets(dataset_id),
		position     INTEGER NOT NULL,
		term_id      TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		significance REAL,
		gene_ids     TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (dataset_id, term_id)
	);
	CREATE INDEX IF NOT EXISTS idx_enrichment_terms_position ON enrichment_terms(dataset_id, position);
`

// Dataset is one enrichment analysis (e.g. GO:BP for a contrast).
type Dataset struct {
	DatasetID string `json:"dataset_id"`
	Name      string `json:"name"`
	Analysis  string `json:"analysis"`
	NTerms    int    `json:"n_terms"`
}

// EnrichmentDB loads enrichment term collections from sqlite.
type EnrichmentDB struct {
	db *sql.DB
}

func NewEnrichmentDB(db *sql.DB) *EnrichmentDB {
	return &EnrichmentDB{db: db}
}

func (e *EnrichmentDB) InitSchema(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertDataset stores a dataset and its terms in input order, replacing any previous copy.
func (e *EnrichmentDB) InsertDataset(ctx context.Context, ds Dataset, terms []model.Term) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrichment_terms WHERE dataset_id = ?`, ds.DatasetID); err != nil {
		return fmt.Errorf("clear terms: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO datasets (dataset_id, name, analysis) VALUES (?, ?, ?)`,
		ds.DatasetID, ds.Name, ds.Analysis); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	stm, err := tx.PrepareContext(ctx, `
		INSERT INTO enrichment_terms (dataset_id, position, term_id, description, significance, gene_ids)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stm.Close()

	for i, t := range terms {
		sig := sql.NullFloat64{Float64: t.Significance, Valid: t.HasSignificance()}
		if _, err := stm.ExecContext(ctx, ds.DatasetID, i, t.ID, t.Description, sig,
			strings.Join(t.GeneSet, GeneSeparator)); err != nil {
			return fmt.Errorf("insert term %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (e *EnrichmentDB) ListDatasets(ctx context.Context) ([]*Dataset, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT d.dataset_id, d.name, d.analysis, COUNT(t.term_id)
		FROM datasets d
		LEFT JOIN enrichment_terms t ON t.dataset_id = d.dataset_id
		GROUP BY d.dataset_id
		ORDER BY d.dataset_id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	datasets := make([]*Dataset, 0, 8)
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.DatasetID, &d.Name, &d.Analysis, &d.NTerms); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		datasets = append(datasets, &d)
	}
	return datasets, rows.Err()
}

// LoadTerms returns the dataset's terms in their stored order. A NULL significance
// comes back as model.MissingSignificance.
func (e *EnrichmentDB) LoadTerms(ctx context.Context, datasetID string) ([]model.Term, error) {
	var exists int
	err := e.db.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE dataset_id = ?`, datasetID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup dataset: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT term_id, description, significance, gene_ids
		FROM enrichment_terms
		WHERE dataset_id = ?
		ORDER BY position`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("term query execution failed: %w", err)
	}
	defer rows.Close()

	terms := make([]model.Term, 0, 64)
	for rows.Next() {
		var t model.Term
		var sig sql.NullFloat64
		var genes string
		if err := rows.Scan(&t.ID, &t.Description, &sig, &genes); err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		t.Significance = model.MissingSignificance()
		if sig.Valid {
			t.Significance = sig.Float64
		}
		t.GeneSet = SplitGenes(genes)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// SplitGenes parses a '/'-separated gene list, dropping blanks.
func SplitGenes(s string) []string {
	parts := strings.Split(s, GeneSeparator)
	genes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genes = append(genes, p)
		}
	}
	return genes
}
