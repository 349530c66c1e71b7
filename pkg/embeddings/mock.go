package embeddings

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// MockEmbedder is a TF-IDF embedder over a fixed vocabulary. It is
// deterministic, needs no network and is the default for the semantic
// detection fallback. Train (AddDocument) before first use; EmbedText is
// then safe for concurrent readers.
type MockEmbedder struct {
	config     *Config
	vocabulary map[string]int
	docCounts  map[string]int
	totalDocs  int
}

// NewMockEmbedder creates an untrained mock embedder.
func NewMockEmbedder(config *Config) *MockEmbedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &MockEmbedder{
		config:     config,
		vocabulary: make(map[string]int),
		docCounts:  make(map[string]int),
	}
}

// NewPhraseEmbedder creates a mock embedder pre-trained on the given phrase
// corpus so every phrase's terms land in the vocabulary.
func NewPhraseEmbedder(config *Config, phrases []string) *MockEmbedder {
	e := NewMockEmbedder(config)
	for _, p := range phrases {
		e.AddDocument(p)
	}
	return e
}

// EmbedText converts text to a TF-IDF vector.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	tokens := m.tokenize(text)

	tf := make(map[string]int)
	for _, token := range tokens {
		tf[token]++
	}

	dimension := m.config.Dimension
	vector := make([]float32, dimension)

	for token, freq := range tf {
		idx, exists := m.vocabulary[token]
		if !exists || idx >= dimension {
			continue
		}
		tfScore := 1.0 + math.Log(float64(freq))

		idfScore := 1.0
		if m.totalDocs > 0 {
			if docFreq := m.docCounts[token]; docFreq > 0 {
				idfScore = 1.0 + math.Log(float64(m.totalDocs)/float64(docFreq))
			}
		}
		vector[idx] = float32(tfScore * idfScore)
	}

	normalize(vector)
	return vector, nil
}

// AddDocument adds a document to the corpus, growing the vocabulary and
// document-frequency counts.
func (m *MockEmbedder) AddDocument(text string) {
	tokens := m.tokenize(text)
	seen := make(map[string]bool)
	for _, token := range tokens {
		if _, exists := m.vocabulary[token]; !exists {
			m.vocabulary[token] = len(m.vocabulary)
		}
		seen[token] = true
	}
	for token := range seen {
		m.docCounts[token]++
	}
	m.totalDocs++
}

func (m *MockEmbedder) tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	var filtered []string
	for _, token := range tokens {
		if len(token) >= 2 {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

func normalize(vector []float32) {
	var norm float64
	for _, v := range vector {
		norm += float64(v * v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
}
