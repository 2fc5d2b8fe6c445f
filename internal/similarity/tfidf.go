package similarity

import (
	"context"
	"math"
	"regexp"
	"sort"

	snowballeng "github.com/kljensen/snowball/english"
	"github.com/xxxsen/common/logutil"
)

// Scorer computes a TF-IDF cosine similarity percentage over a two-document
// corpus. It is stateless between calls; the vocabulary is rebuilt per pair.
type Scorer struct {
	useStemming  bool
	tokenPattern *regexp.Regexp
}

func NewScorer(useStemming bool) *Scorer {
	return &Scorer{
		useStemming:  useStemming,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// Score returns the cosine similarity of the two texts scaled to 0-100 and
// rounded to two decimals. Degenerate input (either side empty after
// normalization, or an empty shared vocabulary) yields 0, never an error.
func (s *Scorer) Score(ctx context.Context, text1, text2 string) float64 {
	clean1 := Normalize(text1)
	clean2 := Normalize(text2)
	if clean1 == "" || clean2 == "" {
		logutil.GetLogger(ctx).Warn("empty text provided for similarity scoring")
		return 0
	}

	tokens1 := s.tokenize(clean1)
	tokens2 := s.tokenize(clean2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		logutil.GetLogger(ctx).Warn("no scorable tokens after normalization")
		return 0
	}

	vocab := buildVocabulary(tokens1, tokens2)
	if len(vocab) == 0 {
		return 0
	}
	idf := inverseDocFrequency(vocab, tokens1, tokens2)
	vec1 := tfidfVector(tokens1, vocab, idf)
	vec2 := tfidfVector(tokens2, vocab, idf)

	cos := cosine(vec1, vec2)
	return Round2(cos * 100)
}

func (s *Scorer) tokenize(text string) []string {
	raw := s.tokenPattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if s.useStemming {
			if snowballeng.IsStopWord(token) {
				continue
			}
			token = snowballeng.Stem(token, false)
		}
		out = append(out, token)
	}
	return out
}

func buildVocabulary(docs ...[]string) map[string]int {
	terms := map[string]struct{}{}
	for _, doc := range docs {
		for _, token := range doc {
			terms[token] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(terms))
	for term := range terms {
		ordered = append(ordered, term)
	}
	sort.Strings(ordered)
	vocab := make(map[string]int, len(ordered))
	for i, term := range ordered {
		vocab[term] = i
	}
	return vocab
}

// inverseDocFrequency uses the smoothed formulation log((1+N)/(1+df))+1 so
// terms present in both documents still carry weight in a 2-doc corpus.
func inverseDocFrequency(vocab map[string]int, docs ...[]string) []float64 {
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := map[int]struct{}{}
		for _, token := range doc {
			idx := vocab[token]
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, count := range df {
		idf[i] = math.Log((1+n)/(1+float64(count))) + 1.0
	}
	return idf
}

func tfidfVector(tokens []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	for _, token := range tokens {
		vec[vocab[token]]++
	}
	total := float64(len(tokens))
	norm := 0.0
	for i := range vec {
		vec[i] = vec[i] / total * idf[i]
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Round2 rounds to two decimal places; every user-facing percentage in the
// pipeline goes through it.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
