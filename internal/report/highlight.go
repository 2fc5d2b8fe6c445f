package report

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// highlightFloor is the match similarity above which a passage is
// emphasized in the full-text rendering.
const highlightFloor = 60.0

// fuzzyAcceptance is the minimum edit similarity between an oracle excerpt
// and a document sentence for the sentence to be treated as the excerpt's
// location. Oracle excerpts rarely reproduce the document's exact
// whitespace and punctuation, so literal substring search alone would
// silently miss them.
const fuzzyAcceptance = 0.75

type span struct {
	start     int
	end       int
	sourceURL string
}

type segment struct {
	text        string
	highlighted bool
	sourceURL   string
}

// highlightParagraph locates every qualifying match excerpt inside the
// paragraph, by literal search first and fuzzy sentence alignment second,
// and splits the paragraph into render segments.
func highlightParagraph(paragraph string, matches []WebMatch) []segment {
	var spans []span
	for _, match := range matches {
		if match.Similarity <= highlightFloor || strings.TrimSpace(match.AssignmentText) == "" {
			continue
		}
		if s, ok := locateExcerpt(paragraph, match.AssignmentText); ok {
			s.sourceURL = match.SourceURL
			spans = append(spans, s)
		}
	}
	if len(spans) == 0 {
		return []segment{{text: paragraph}}
	}
	spans = mergeSpans(spans)

	var segments []segment
	cursor := 0
	for _, s := range spans {
		if s.start > cursor {
			segments = append(segments, segment{text: paragraph[cursor:s.start]})
		}
		segments = append(segments, segment{text: paragraph[s.start:s.end], highlighted: true, sourceURL: s.sourceURL})
		cursor = s.end
	}
	if cursor < len(paragraph) {
		segments = append(segments, segment{text: paragraph[cursor:]})
	}
	return segments
}

func locateExcerpt(paragraph, excerpt string) (span, bool) {
	if idx := strings.Index(paragraph, excerpt); idx >= 0 {
		return span{start: idx, end: idx + len(excerpt)}, true
	}
	// Fuzzy pass: align the excerpt against each sentence-ish chunk of the
	// paragraph and take the best-scoring one.
	best := span{}
	bestScore := 0.0
	for _, chunk := range paragraphChunks(paragraph) {
		score := editSimilarity(chunk.text, excerpt)
		if score > bestScore {
			bestScore = score
			best = span{start: chunk.start, end: chunk.end}
		}
	}
	if bestScore >= fuzzyAcceptance {
		return best, true
	}
	return span{}, false
}

type chunk struct {
	text  string
	start int
	end   int
}

// paragraphChunks slices a paragraph at terminal punctuation while keeping
// byte offsets into the original string.
func paragraphChunks(paragraph string) []chunk {
	var chunks []chunk
	start := 0
	for i, r := range paragraph {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		end := i + 1
		text := strings.TrimSpace(paragraph[start:end])
		if text != "" {
			offset := start + strings.Index(paragraph[start:end], text)
			chunks = append(chunks, chunk{text: text, start: offset, end: end})
		}
		start = end
	}
	if start < len(paragraph) {
		text := strings.TrimSpace(paragraph[start:])
		if text != "" {
			offset := start + strings.Index(paragraph[start:], text)
			chunks = append(chunks, chunk{text: text, start: offset, end: len(paragraph)})
		}
	}
	return chunks
}

func editSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(dist)/float64(maxLen)
}

func mergeSpans(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
