package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drift-line/nlcmd/core"
	"github.com/drift-line/nlcmd/pkg/embeddings"
	"github.com/drift-line/nlcmd/pkg/semindex"
)

// SemanticStage is the embedding fallback at the tail of the cascade.
// It compares the input against a precomputed phrase index and accepts
// only near-identical similarity.
type SemanticStage struct {
	embedder  embeddings.Embedder
	index     *semindex.Index
	threshold float64
	timeout   time.Duration
}

// NewSemanticStage builds the phrase index from the corpus. The embedder is
// typically the deterministic TF-IDF mock; an API-backed embedder drops in
// behind the same interface.
func NewSemanticStage(embedder embeddings.Embedder, corpus map[string][]string, threshold float64) (*SemanticStage, error) {
	dim := embeddings.DefaultConfig().Dimension
	index := semindex.New(dim)

	ctx := context.Background()
	for key, phrases := range corpus {
		parts := strings.SplitN(key, "/", 2)
		if len(parts) != 2 {
			continue
		}
		for i, phrase := range phrases {
			vec, err := embedder.EmbedText(ctx, phrase)
			if err != nil {
				return nil, fmt.Errorf("embed phrase %q: %w", phrase, err)
			}
			id := fmt.Sprintf("%s#%d", key, i)
			meta := map[string]string{"domain": parts[0], "intent": parts[1], "phrase": phrase}
			if err := index.Upsert(ctx, id, vec, meta); err != nil {
				return nil, fmt.Errorf("index phrase %q: %w", phrase, err)
			}
		}
	}

	return &SemanticStage{
		embedder:  embedder,
		index:     index,
		threshold: threshold,
		timeout:   2 * time.Second,
	}, nil
}

// Name implements core.DetectionStrategy.
func (s *SemanticStage) Name() string { return "semantic" }

// TryDetect implements core.DetectionStrategy. Embedding errors fail the
// stage silently; the cascade falls through to its default.
func (s *SemanticStage) TryDetect(text string) (core.DetectionResult, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	vec, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return core.DetectionResult{}, false
	}

	hits, err := s.index.Search(ctx, vec, 1)
	if err != nil || len(hits) == 0 {
		return core.DetectionResult{}, false
	}

	best := hits[0]
	if best.Score < s.threshold {
		return core.DetectionResult{}, false
	}
	return core.DetectionResult{
		Domain:         best.Meta["domain"],
		Intent:         best.Meta["intent"],
		Confidence:     core.Clamp01(best.Score),
		MatchedKeyword: best.Meta["phrase"],
	}, true
}
