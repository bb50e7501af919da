package nlp

import "github.com/jonreiter/govader"

// Scorer defines the interface for the external sentiment-scoring
// capability: text in, polarity in [-1,1] and subjectivity in [0,1] out.
type Scorer interface {
	Score(text string) (polarity float64, subjectivity float64, err error)
}

// VaderScorer implements Scorer using the VADER lexicon
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a new VaderScorer instance
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score runs VADER over the text. Polarity is the compound score; the
// proportion of non-neutral tokens stands in for subjectivity, since a
// lexicon scorer has no separate subjectivity model.
func (v *VaderScorer) Score(text string) (float64, float64, error) {
	scores := v.analyzer.PolarityScores(text)

	subjectivity := scores.Positive + scores.Negative
	if subjectivity > 1 {
		subjectivity = 1
	}

	return scores.Compound, subjectivity, nil
}
