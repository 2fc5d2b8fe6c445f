package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// degradedScore is reported when the oracle answers but its output cannot
// be parsed. The middle of the scale avoids false confidence either way.
const degradedScore = 50.0

type JudgmentMatch struct {
	AssignmentText string  `json:"assignment_text"`
	SourceURL      string  `json:"source_url"`
	SourceText     string  `json:"source_text"`
	Similarity     float64 `json:"similarity"`
	MatchType      string  `json:"match_type"`
}

// Judgment is the oracle's structured verdict on a document against a set
// of web sources. Degraded marks verdicts recovered from unparseable
// output; Raw always keeps the original response.
type Judgment struct {
	OverallScore float64         `json:"overall_score"`
	Assessment   string          `json:"assessment"`
	Matches      []JudgmentMatch `json:"matches"`
	Conclusion   string          `json:"conclusion"`
	Degraded     bool            `json:"-"`
	Raw          string          `json:"-"`
}

// SourceInput is one fetched web page offered to the oracle.
type SourceInput struct {
	URL     string
	Content string
}

// BuildJudgmentPrompt assembles the analysis prompt. Document and source
// contents are truncated to maxInputChars each to stay within the model's
// context budget.
func BuildJudgmentPrompt(document string, sources []SourceInput, maxInputChars int) string {
	var sb strings.Builder
	sb.WriteString("You are a plagiarism detection expert. Compare the assignment text below against the web sources and identify copied or closely paraphrased content.\n\n")
	sb.WriteString("ASSIGNMENT TEXT:\n")
	sb.WriteString(clip(document, maxInputChars))
	sb.WriteString("\n\nWEB SOURCES:\n")
	for i, source := range sources {
		sb.WriteString(fmt.Sprintf("\nSource %d (%s):\n", i+1, source.URL))
		sb.WriteString(clip(source.Content, maxInputChars))
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespond with JSON only, using this exact structure:\n")
	sb.WriteString(`{
  "overall_score": <0-100 similarity percentage>,
  "assessment": "<one sentence overall assessment>",
  "matches": [
    {
      "assignment_text": "<exact passage from the assignment>",
      "source_url": "<url of the matching source>",
      "source_text": "<matching passage from the source>",
      "similarity": <0-100>,
      "match_type": "<Exact Match | Similar Content | Common Knowledge>"
    }
  ],
  "conclusion": "<short conclusion about originality>"
}`)
	return sb.String()
}

// ParseJudgment extracts the JSON verdict from the oracle's response. Model
// output often wraps the JSON in markdown fences or prose, so the parser
// hunts for the outermost object before giving up. An unparseable response
// yields a degraded judgment rather than an error.
func ParseJudgment(raw string) Judgment {
	candidate := extractJSON(raw)
	if candidate != "" {
		var j Judgment
		if err := json.Unmarshal([]byte(candidate), &j); err == nil {
			j.Raw = raw
			clampJudgment(&j)
			return j
		}
	}
	return Judgment{
		OverallScore: degradedScore,
		Assessment:   "Automated analysis completed but the response could not be fully parsed.",
		Conclusion:   strings.TrimSpace(raw),
		Degraded:     true,
		Raw:          raw,
	}
}

func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if start := strings.Index(text, "```json"); start >= 0 {
		text = text[start+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if start := strings.Index(text, "```"); start >= 0 {
		text = text[start+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func clampJudgment(j *Judgment) {
	j.OverallScore = clampScore(j.OverallScore)
	for i := range j.Matches {
		j.Matches[i].Similarity = clampScore(j.Matches[i].Similarity)
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clip(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}
