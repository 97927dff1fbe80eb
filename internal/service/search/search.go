// search runs full-text book queries against Elasticsearch and keeps the
// books index in step with the catalog.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/nstepanov/bookvault/internal/models"
)

// Search runs a fuzzy multi_match over title, author and description.
// Title matches weigh double.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Book, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "author", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Book `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	books := make([]models.Book, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		books[i] = hit.Source
	}
	return r.Hits.Total.Value, books, nil
}

// IndexBook upserts one book document keyed by its id.
func IndexBook(ctx context.Context, es *elasticsearch.Client, index string, book *models.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	res, err := es.Index(
		index,
		strings.NewReader(string(data)),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(book.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index book: %s", res.Status())
	}
	return nil
}

// DeleteBook removes one book document. A missing document is fine.
func DeleteBook(ctx context.Context, es *elasticsearch.Client, index string, bookID uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(bookID), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete book: %s", res.Status())
	}
	return nil
}
