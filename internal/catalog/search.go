// internal/catalog/search.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

// Searcher indexes and queries sellable items. The catalog treats it as best
// effort: indexing failures are logged, and queries fall back to the database.
type Searcher interface {
	IndexItem(ctx context.Context, item *Item) error
	RemoveItem(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]*Item, error)
}

// MeiliIndex backs Searcher with a Meilisearch items index.
type MeiliIndex struct {
	index meilisearch.IndexManager
}

func NewMeiliIndex(host, apiKey string) *MeiliIndex {
	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &MeiliIndex{index: client.Index("items")}
}

func (m *MeiliIndex) IndexItem(ctx context.Context, item *Item) error {
	primaryKey := "id"
	_, err := m.index.AddDocumentsWithContext(ctx, []*Item{item}, &primaryKey)
	return err
}

func (m *MeiliIndex) RemoveItem(ctx context.Context, id uuid.UUID) error {
	_, err := m.index.DeleteDocumentWithContext(ctx, id.String())
	return err
}

func (m *MeiliIndex) Search(ctx context.Context, query string) ([]*Item, error) {
	res, err := m.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, fmt.Errorf("marshal search hits: %w", err)
	}
	var items []*Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}
	return items, nil
}
