package nlp

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrEmptyFeedback indicates feedback text with no analyzable content
var ErrEmptyFeedback = errors.New("feedback text is empty")

// Sentiment labels. Classification is a fixed function of polarity:
// above 0.1 positive, below -0.1 negative, neutral otherwise.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

const (
	positiveThreshold  = 0.1
	negativeThreshold  = -0.1
	defaultMaxKeywords = 10
	neutralConfidence  = 0.5
)

// Analysis contains the result of analyzing one piece of feedback
type Analysis struct {
	Sentiment    string   `json:"sentiment"`
	Confidence   float64  `json:"confidence"`
	Polarity     float64  `json:"polarity"`
	Subjectivity float64  `json:"subjectivity"`
	Keywords     []string `json:"keywords"`
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
}

// Analyzer derives sentiment and keywords from customer feedback
type Analyzer struct {
	scorer      Scorer
	maxKeywords int
}

// NewAnalyzer creates a new Analyzer backed by the given scorer
func NewAnalyzer(scorer Scorer) *Analyzer {
	return &Analyzer{
		scorer:      scorer,
		maxKeywords: defaultMaxKeywords,
	}
}

// Analyze scores the feedback text and extracts keywords. Empty input
// fails with ErrEmptyFeedback; scorer failures are wrapped and returned,
// never replaced with a default sentiment.
func (a *Analyzer) Analyze(text string) (*Analysis, error) {
	cleaned := preprocessText(text)
	if cleaned == "" {
		return nil, ErrEmptyFeedback
	}

	polarity, subjectivity, err := a.scorer.Score(cleaned)
	if err != nil {
		return nil, fmt.Errorf("scoring feedback: %w", err)
	}

	return &Analysis{
		Sentiment:    classifySentiment(polarity),
		Confidence:   round3(confidenceFor(polarity)),
		Polarity:     round3(polarity),
		Subjectivity: round3(subjectivity),
		Keywords:     extractKeywords(cleaned, a.maxKeywords),
		Success:      true,
		Message:      "feedback analysis completed successfully",
	}, nil
}

// classifySentiment maps polarity to a label. The boundary values land
// in the neutral bucket.
func classifySentiment(polarity float64) string {
	switch {
	case polarity > positiveThreshold:
		return SentimentPositive
	case polarity < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// confidenceFor reflects distance from neutral, not statistical certainty.
func confidenceFor(polarity float64) float64 {
	if polarity == 0 {
		return neutralConfidence
	}
	return math.Min(1.0, math.Abs(polarity)+0.5)
}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^\w\s.,!?;:\-()]`)
	wordPattern    = regexp.MustCompile(`[a-zA-Z]+(?:'[a-zA-Z]+)?`)
)

// preprocessText squeezes whitespace and strips characters outside the
// word/punctuation set before scoring.
func preprocessText(text string) string {
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// stopWords are never keywords regardless of frequency
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "from": {},
	"was": {}, "are": {}, "were": {}, "been": {}, "have": {}, "has": {},
	"had": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "can": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "you": {}, "she": {}, "they": {},
	"what": {}, "which": {}, "who": {}, "when": {}, "where": {}, "why": {},
	"how": {}, "all": {}, "each": {}, "every": {}, "both": {}, "few": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {}, "nor": {},
	"not": {}, "only": {}, "own": {}, "same": {}, "than": {}, "too": {},
	"very": {}, "just": {}, "now": {},
}

// extractKeywords tokenizes on word boundaries and keeps the first max
// distinct non-stop-word tokens of at least 3 runes, in order of first
// appearance. Frequency ranking happens only at aggregation time.
func extractKeywords(text string, max int) []string {
	keywords := make([]string, 0, max)
	seen := make(map[string]struct{})

	for _, token := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(token)) < 3 {
			continue
		}
		if _, skip := stopWords[token]; skip {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == max {
			break
		}
	}

	return keywords
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
