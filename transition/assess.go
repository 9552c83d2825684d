package transition

import "fmt"

// Rating classifies a document's transition word usage.
type Rating string

// Ratings, from best to not applicable.
const (
	RatingGood          Rating = "good"
	RatingOK            Rating = "ok"
	RatingBad           Rating = "bad"
	RatingNotApplicable Rating = "not_applicable"
)

// Score values per rating.
const (
	ScoreGood = 9
	ScoreOK   = 6
	ScoreBad  = 3
)

// Thresholds configures Assess.
type Thresholds struct {
	// MinWords is the shortest text, in words, that gets rated.
	MinWords int `json:"min_words"`
	// Good is the transition sentence percentage rated good.
	Good float64 `json:"good_percentage"`
	// OK is the transition sentence percentage rated ok.
	OK float64 `json:"ok_percentage"`
}

// DefaultThresholds returns the standard rating thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWords: 200,
		Good:     30,
		OK:       20,
	}
}

// Validate checks that the thresholds are ordered and in range.
func (t Thresholds) Validate() error {
	if t.MinWords < 0 {
		return fmt.Errorf("min_words must not be negative")
	}
	if t.OK < 0 || t.Good > 100 {
		return fmt.Errorf("percentages must be between 0 and 100")
	}
	if t.OK > t.Good {
		return fmt.Errorf("ok_percentage (%g) must not exceed good_percentage (%g)", t.OK, t.Good)
	}
	return nil
}

// Assessment is the rating of one Result.
type Assessment struct {
	Rating     Rating  `json:"rating"`
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
	Text       string  `json:"text"`
}

// Assess rates a research result.
func Assess(r Result, t Thresholds) Assessment {
	if r.WordCount < t.MinWords || r.TotalSentences == 0 {
		return Assessment{
			Rating: RatingNotApplicable,
			Text:   fmt.Sprintf("Text has %d words; at least %d are needed for a rating.", r.WordCount, t.MinWords),
		}
	}

	pct := 100 * float64(r.TransitionWordSentences) / float64(r.TotalSentences)
	a := Assessment{Percentage: pct}

	switch {
	case pct >= t.Good:
		a.Rating, a.Score = RatingGood, ScoreGood
		a.Text = fmt.Sprintf("%.1f%% of the sentences contain transition words. Well done!", pct)
	case pct >= t.OK:
		a.Rating, a.Score = RatingOK, ScoreOK
		a.Text = fmt.Sprintf("%.1f%% of the sentences contain transition words, which is not enough. Use more of them.", pct)
	default:
		a.Rating, a.Score = RatingBad, ScoreBad
		a.Text = fmt.Sprintf("Only %.1f%% of the sentences contain transition words, which is not enough. Use more of them.", pct)
	}
	return a
}

// Report is a research result together with its assessment.
type Report struct {
	Source string `json:"source,omitempty"`
	Result
	Assessment Assessment `json:"assessment"`
}

// Report researches text and rates the result.
func (a *Analyzer) Report(source, text string, t Thresholds) Report {
	res := a.Research(text)
	return Report{
		Source:     source,
		Result:     res,
		Assessment: Assess(res, t),
	}
}
