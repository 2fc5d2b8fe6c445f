package similarity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

type Strategy string

const (
	// StrategySentence pairs near-duplicate sentences by edit similarity.
	StrategySentence Strategy = "sentence"
	// StrategyPhrase pairs exact word runs; the simpler report variant.
	StrategyPhrase Strategy = "phrase"
)

// MatchPair is one overlapping unit found in both documents. Similarity is
// a percentage rounded to two decimals.
type MatchPair struct {
	Unit1      string  `json:"unit1"`
	Unit2      string  `json:"unit2"`
	Index1     int     `json:"index1"`
	Index2     int     `json:"index2"`
	Similarity float64 `json:"similarity"`
}

type Options struct {
	Threshold        float64
	MinSentenceWords int
	MinPhraseRun     int
	Strategy         Strategy
}

func (o *Options) applyDefaults() {
	if o.Threshold == 0 {
		o.Threshold = 0.6
	}
	if o.MinSentenceWords == 0 {
		o.MinSentenceWords = 3
	}
	if o.MinPhraseRun == 0 {
		o.MinPhraseRun = 4
	}
	if o.Strategy == "" {
		o.Strategy = StrategySentence
	}
}

// Matcher locates overlapping passages between two documents. One matcher
// carries both strategies behind a configuration switch; there is no
// separate type per strategy.
type Matcher struct {
	opts      Options
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewMatcher(opts Options) *Matcher {
	opts.applyDefaults()
	m := &Matcher{opts: opts}
	if tokenizer, err := english.NewSentenceTokenizer(nil); err == nil {
		m.tokenizer = tokenizer
	}
	return m
}

func (m *Matcher) Threshold() float64 {
	return m.opts.Threshold
}

// FindMatches compares both texts and returns the matching unit pairs
// sorted by similarity descending; ties keep discovery order.
func (m *Matcher) FindMatches(text1, text2 string) []MatchPair {
	var matches []MatchPair
	switch m.opts.Strategy {
	case StrategyPhrase:
		matches = m.phraseRuns(text1, text2)
	default:
		matches = m.sentencePairs(text1, text2)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

func (m *Matcher) sentencePairs(text1, text2 string) []MatchPair {
	units1 := m.sentenceUnits(text1)
	units2 := m.sentenceUnits(text2)
	var matches []MatchPair
	// Quadratic over sentence counts; assignments are small enough that no
	// indexing is worth the complexity.
	for i, u1 := range units1 {
		for j, u2 := range units2 {
			if RatioUpperBound(u1, u2) < m.opts.Threshold {
				continue
			}
			ratio := Ratio(u1, u2)
			if ratio < m.opts.Threshold {
				continue
			}
			matches = append(matches, MatchPair{
				Unit1:      u1,
				Unit2:      u2,
				Index1:     i,
				Index2:     j,
				Similarity: Round2(ratio * 100),
			})
		}
	}
	return matches
}

func (m *Matcher) sentenceUnits(text string) []string {
	var units []string
	for _, s := range m.splitSentences(CleanForSentences(text)) {
		if len(strings.Fields(s)) < m.opts.MinSentenceWords {
			continue
		}
		units = append(units, s)
	}
	return units
}

var (
	terminalSplit = regexp.MustCompile(`[.!?]\s+`)
	terminalAny   = regexp.MustCompile(`[.!?]`)
)

// splitSentences applies the layered segmentation fallback: trained
// tokenizer, then terminal-punctuation regex, then newline splitting with a
// terminal-punctuation sub-split per line.
func (m *Matcher) splitSentences(text string) []string {
	if text == "" {
		return nil
	}
	if m.tokenizer != nil {
		var out []string
		for _, s := range m.tokenizer.Tokenize(text) {
			trimmed := strings.TrimSpace(s.Text)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if parts := splitNonEmpty(terminalSplit.Split(text, -1)); len(parts) > 0 {
		return parts
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if terminalAny.MatchString(line) {
			out = append(out, splitNonEmpty(terminalAny.Split(line, -1))...)
			continue
		}
		out = append(out, line)
	}
	return out
}

func splitNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// phraseRuns finds exact case-insensitive word runs of at least
// MinPhraseRun words. After reporting a run starting at i the outer index
// jumps past it so overlapping runs from the same start are not repeated.
func (m *Matcher) phraseRuns(text1, text2 string) []MatchPair {
	words1 := strings.Fields(text1)
	words2 := strings.Fields(text2)
	var matches []MatchPair
	for i := 0; i < len(words1); i++ {
		for j := 0; j < len(words2); j++ {
			length := 0
			for i+length < len(words1) && j+length < len(words2) &&
				strings.EqualFold(words1[i+length], words2[j+length]) {
				length++
			}
			if length < m.opts.MinPhraseRun {
				continue
			}
			matches = append(matches, MatchPair{
				Unit1:      strings.Join(words1[i:i+length], " "),
				Unit2:      strings.Join(words2[j:j+length], " "),
				Index1:     i,
				Index2:     j,
				Similarity: 100,
			})
			i += length - 1
			break
		}
	}
	return matches
}
