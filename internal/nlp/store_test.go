package nlp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// analysisWith builds a minimal successful analysis for store tests
func analysisWith(sentiment string, polarity, confidence float64, keywords ...string) *Analysis {
	return &Analysis{
		Sentiment:  sentiment,
		Polarity:   polarity,
		Confidence: confidence,
		Keywords:   keywords,
		Success:    true,
	}
}

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore()
	})

	Describe("Record", func() {
		When("the feedback text is empty", func() {
			It("should fail with ErrEmptyFeedback", func() {
				err := store.Record(analysisWith(SentimentNeutral, 0, 0.5), "")
				Expect(err).To(MatchError(ErrEmptyFeedback))
				Expect(store.Count()).To(Equal(0))
			})
		})

		When("the same text is recorded twice", func() {
			It("should add a record each time", func() {
				a := analysisWith(SentimentPositive, 0.4, 0.9, "staff")
				Expect(store.Record(a, "great staff")).To(Succeed())
				Expect(store.Record(a, "great staff")).To(Succeed())
				Expect(store.Count()).To(Equal(2))
			})
		})
	})

	Describe("Snapshot", func() {
		When("no records exist", func() {
			It("should return zero-valued fields instead of failing", func() {
				insights := store.Snapshot()
				Expect(insights.TotalFeedback).To(Equal(0))
				Expect(insights.SentimentDistribution).To(Equal(Distribution{}))
				Expect(insights.TopKeywords).To(BeEmpty())
				Expect(insights.AverageConfidence).To(Equal(0.0))
				Expect(insights.AveragePolarity).To(Equal(0.0))
			})
		})

		When("exactly one positive record exists", func() {
			BeforeEach(func() {
				a := analysisWith(SentimentPositive, 0.6, 1.0, "staff", "clean")
				Expect(store.Record(a, "friendly staff, clean rooms")).To(Succeed())
			})

			It("should report a 100 percent positive distribution", func() {
				insights := store.Snapshot()
				Expect(insights.TotalFeedback).To(Equal(1))
				Expect(insights.SentimentDistribution).To(Equal(Distribution{
					Positive: 100.0,
					Negative: 0.0,
					Neutral:  0.0,
				}))
			})

			It("should be idempotent across calls", func() {
				first := store.Snapshot()
				second := store.Snapshot()
				Expect(second).To(Equal(first))
			})
		})

		When("records carry mixed sentiments", func() {
			BeforeEach(func() {
				Expect(store.Record(analysisWith(SentimentPositive, 0.5, 1.0), "good")).To(Succeed())
				Expect(store.Record(analysisWith(SentimentNegative, -0.5, 1.0), "bad")).To(Succeed())
				Expect(store.Record(analysisWith(SentimentNeutral, 0.0, 0.5), "meh fine")).To(Succeed())
			})

			It("should produce percentages that sum to 100", func() {
				d := store.Snapshot().SentimentDistribution
				Expect(d.Positive + d.Negative + d.Neutral).To(BeNumerically("~", 100, 0.02))
			})

			It("should average confidence and polarity over all records", func() {
				insights := store.Snapshot()
				Expect(insights.AverageConfidence).To(BeNumerically("~", 0.833, 0.001))
				Expect(insights.AveragePolarity).To(BeNumerically("~", 0.0, 0.001))
			})
		})

		Describe("top keywords", func() {
			BeforeEach(func() {
				Expect(store.Record(analysisWith(SentimentPositive, 0.5, 1.0, "a", "b"), "one")).To(Succeed())
				Expect(store.Record(analysisWith(SentimentPositive, 0.5, 1.0, "a", "c"), "two")).To(Succeed())
				Expect(store.Record(analysisWith(SentimentPositive, 0.5, 1.0, "a"), "three")).To(Succeed())
			})

			It("should rank the most frequent keyword first", func() {
				top := store.Snapshot().TopKeywords
				Expect(top).NotTo(BeEmpty())
				Expect(top[0]).To(Equal(KeywordStat{Keyword: "a", Count: 3, Percentage: 100.0}))
			})

			It("should break count ties by first-seen order", func() {
				top := store.Snapshot().TopKeywords
				Expect(top).To(HaveLen(3))
				Expect(top[1].Keyword).To(Equal("b"))
				Expect(top[2].Keyword).To(Equal("c"))
			})

			It("should compute percentages against the feedback count", func() {
				top := store.Snapshot().TopKeywords
				Expect(top[1].Percentage).To(BeNumerically("~", 33.33, 0.001))
			})

			It("should cap the ranking at the configured limit", func() {
				many := make([]string, 0, 15)
				for _, kw := range []string{"d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o"} {
					many = append(many, kw)
				}
				Expect(store.Record(analysisWith(SentimentNeutral, 0, 0.5, many...), "lots")).To(Succeed())
				Expect(store.Snapshot().TopKeywords).To(HaveLen(10))
			})
		})
	})
})
