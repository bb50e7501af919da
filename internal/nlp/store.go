package nlp

import (
	"math"
	"sort"
	"strings"
	"sync"
)

const defaultTopKeywords = 10

// FeedbackRecord is the persisted form of one analyzed feedback. Records
// are append-only and live for the process lifetime.
type FeedbackRecord struct {
	FeedbackText string   `json:"feedback_text"`
	Sentiment    string   `json:"sentiment"`
	Confidence   float64  `json:"confidence"`
	Polarity     float64  `json:"polarity"`
	Keywords     []string `json:"keywords"`
}

// Distribution holds sentiment percentages across all recorded feedback
type Distribution struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// KeywordStat is one entry in the top-keyword ranking
type KeywordStat struct {
	Keyword    string  `json:"keyword"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Insights is an aggregation over all stored feedback, computed fresh on
// every call
type Insights struct {
	TotalFeedback         int           `json:"total_feedback"`
	SentimentDistribution Distribution  `json:"sentiment_distribution"`
	TopKeywords           []KeywordStat `json:"top_keywords"`
	AverageConfidence     float64       `json:"average_confidence"`
	AveragePolarity       float64       `json:"average_polarity"`
}

// Store is an in-memory, append-only collection of feedback records.
// Construct one per process (or per test) and inject it; there is no
// package-level instance. A single mutex serializes Record and Snapshot.
type Store struct {
	mu      sync.Mutex
	records []FeedbackRecord
	topK    int
}

// NewStore creates an empty feedback store
func NewStore() *Store {
	return &Store{topK: defaultTopKeywords}
}

// Record appends a new feedback record. Repeated text is not deduplicated;
// every call adds a record.
func (s *Store) Record(analysis *Analysis, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyFeedback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, FeedbackRecord{
		FeedbackText: text,
		Sentiment:    analysis.Sentiment,
		Confidence:   analysis.Confidence,
		Polarity:     analysis.Polarity,
		Keywords:     analysis.Keywords,
	})
	return nil
}

// Count returns the number of stored records
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot aggregates all stored records. The record slice is copied
// under the lock; the aggregation math runs outside it.
func (s *Store) Snapshot() Insights {
	s.mu.Lock()
	records := make([]FeedbackRecord, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	insights := Insights{
		TotalFeedback: len(records),
		TopKeywords:   []KeywordStat{},
	}
	if len(records) == 0 {
		return insights
	}

	total := float64(len(records))
	counts := make(map[string]int)
	var confidenceSum, polaritySum float64
	for _, r := range records {
		counts[r.Sentiment]++
		confidenceSum += r.Confidence
		polaritySum += r.Polarity
	}

	insights.SentimentDistribution = Distribution{
		Positive: round2(100 * float64(counts[SentimentPositive]) / total),
		Negative: round2(100 * float64(counts[SentimentNegative]) / total),
		Neutral:  round2(100 * float64(counts[SentimentNeutral]) / total),
	}
	insights.AverageConfidence = round3(confidenceSum / total)
	insights.AveragePolarity = round3(polaritySum / total)
	insights.TopKeywords = topKeywords(records, s.topK)

	return insights
}

// topKeywords counts keyword occurrences across all records and ranks
// them by descending count, ties broken by first-seen order across the
// record history. Percentages are relative to the feedback count, not
// the total number of keyword occurrences.
func topKeywords(records []FeedbackRecord, limit int) []KeywordStat {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, r := range records {
		for _, kw := range r.Keywords {
			if _, ok := counts[kw]; !ok {
				firstSeen[kw] = order
				order++
			}
			counts[kw]++
		}
	}

	ranked := make([]KeywordStat, 0, len(counts))
	total := float64(len(records))
	for kw, count := range counts {
		ranked = append(ranked, KeywordStat{
			Keyword:    kw,
			Count:      count,
			Percentage: round2(100 * float64(count) / total),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count == ranked[j].Count {
			return firstSeen[ranked[i].Keyword] < firstSeen[ranked[j].Keyword]
		}
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
