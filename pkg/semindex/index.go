// Package semindex is an in-memory phrase vector index with cosine search.
// The detection cascade's semantic fallback queries it against a precomputed
// multilingual phrase set.
package semindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Hit is one search result.
type Hit struct {
	ID    string            `json:"id"`
	Score float64           `json:"score"`
	Meta  map[string]string `json:"meta"`
}

// Index stores normalized vectors keyed by phrase ID. Built once at startup,
// then safe for unlimited concurrent readers.
type Index struct {
	dimension int
	vectors   map[string][]float32
	metadata  map[string]map[string]string
	mu        sync.RWMutex
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) *Index {
	return &Index{
		dimension: dimension,
		vectors:   make(map[string][]float32),
		metadata:  make(map[string]map[string]string),
	}
}

// Upsert stores or updates a vector with metadata.
func (x *Index) Upsert(ctx context.Context, id string, vec []float32, meta map[string]string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if len(vec) != x.dimension {
		return fmt.Errorf("vector dimension %d does not match expected %d", len(vec), x.dimension)
	}

	normalized := make([]float32, len(vec))
	copy(normalized, vec)
	normalize(normalized)

	x.vectors[id] = normalized
	x.metadata[id] = make(map[string]string, len(meta))
	for k, v := range meta {
		x.metadata[id][k] = v
	}
	return nil
}

// Search returns the topK most similar entries by cosine similarity.
func (x *Index) Search(ctx context.Context, vec []float32, topK int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(vec) != x.dimension {
		return nil, fmt.Errorf("vector dimension %d does not match expected %d", len(vec), x.dimension)
	}

	query := make([]float32, len(vec))
	copy(query, vec)
	normalize(query)

	hits := make([]Hit, 0, len(x.vectors))
	for id, stored := range x.vectors {
		meta := make(map[string]string)
		for k, v := range x.metadata[id] {
			meta[k] = v
		}
		hits = append(hits, Hit{
			ID:    id,
			Score: cosineSimilarity(query, stored),
			Meta:  meta,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored vectors.
func (x *Index) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dimension returns the expected vector dimension.
func (x *Index) Dimension() int { return x.dimension }

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
}
