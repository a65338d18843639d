package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

// BlogDocument is the shape indexed into Elasticsearch for full-text search.
type BlogDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogIndex indexes and searches blog posts in Elasticsearch.
type BlogIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewBlogIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *BlogIndex {
	return &BlogIndex{es: es, index: index, logger: logger}
}

func (b *BlogIndex) Index(ctx context.Context, doc BlogDocument) error {
	if b.es == nil || b.index == "" {
		return nil
	}
	body, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: b.index, DocumentID: doc.ID, Body: strings.NewReader(string(body)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, b.es)
	if err != nil {
		if b.logger != nil {
			b.logger.WithError(err).WithField("blog_id", doc.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && b.logger != nil {
		b.logger.WithField("status", res.Status()).WithField("blog_id", doc.ID).Warn("es index response error")
	}
	return nil
}

func (b *BlogIndex) Delete(ctx context.Context, blogID string) error {
	if b.es == nil || b.index == "" {
		return nil
	}
	req := esapi.DeleteRequest{Index: b.index, DocumentID: blogID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, b.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

// Search performs a multi_match query on title and content.
func (b *BlogIndex) Search(ctx context.Context, q string, size int) ([]BlogDocument, error) {
	if b.es == nil || b.index == "" {
		return []BlogDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
	}
	body, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := b.es.Search(
		b.es.Search.WithContext(c),
		b.es.Search.WithIndex(b.index),
		b.es.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source BlogDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]BlogDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
