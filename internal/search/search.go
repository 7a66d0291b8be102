// Package search publishes matched ESOA rows to Meilisearch as searchable
// documents, mirroring the teacher's setupMeilisearchIndex +
// transformToMeiliDocument pair retargeted at match outcomes.
package search

import (
	"context"
	"fmt"
	"log"

	meilisearch "github.com/meilisearch/meilisearch-go"
)

const indexName = "esoa_matches"

// Publisher configures and writes documents to the esoa_matches index.
type Publisher struct {
	client meilisearch.ServiceManager
	index  meilisearch.IndexManager
}

// NewPublisher connects to Meilisearch and configures the index settings.
func NewPublisher(baseURL, apiKey string) (*Publisher, error) {
	client := meilisearch.New(baseURL, meilisearch.WithAPIKey(apiKey))
	index := client.Index(indexName)

	p := &Publisher{client: client, index: index}
	if err := p.setupIndex(); err != nil {
		return nil, fmt.Errorf("search: setup index: %w", err)
	}
	return p, nil
}

func (p *Publisher) setupIndex() error {
	searchable := []string{"description", "generic_name", "drug_code"}
	if _, err := p.index.UpdateSearchableAttributes(&searchable); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}

	filterable := []interface{}{"form_facet", "route_facet", "match_reason"}
	if _, err := p.index.UpdateFilterableAttributes(&filterable); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}

	sortable := []string{"drug_code"}
	if _, err := p.index.UpdateSortableAttributes(&sortable); err != nil {
		return fmt.Errorf("update sortable attributes: %w", err)
	}

	log.Printf("search: %s index configured", indexName)
	return nil
}

// MatchedRow is the projection of one matched ESOA row that becomes a
// searchable document.
type MatchedRow struct {
	EsoaID      string
	DrugCode    *string
	MatchReason string
	Description string
	GenericName string
	Form        string
	Route       string
}

// transform builds the Meilisearch document for one matched row. Rows whose
// match reason isn't "matched_perfect" are still documented so operators can
// filter on match_reason while triaging unmatched claims.
func (p *Publisher) transform(row MatchedRow) map[string]interface{} {
	code := ""
	if row.DrugCode != nil {
		code = *row.DrugCode
	}
	return map[string]interface{}{
		"id":           row.EsoaID,
		"drug_code":    code,
		"match_reason": row.MatchReason,
		"description":  row.Description,
		"generic_name": row.GenericName,
		"form_facet":   row.Form,
		"route_facet":  row.Route,
	}
}

// PublishBatch uploads a batch of matched rows as documents.
func (p *Publisher) PublishBatch(ctx context.Context, rows []MatchedRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = p.transform(row)
	}
	if _, err := p.index.AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("search: add documents: %w", err)
	}
	return nil
}
