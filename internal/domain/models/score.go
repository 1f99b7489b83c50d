package models

// ScoreResult is the output of one composite score variant. FinalScore is the
// weighted sum of Components clipped to [0,10] and rounded to one decimal.
// FinalScore == 0 with empty Components is the "insufficient data" sentinel,
// distinct from a genuinely low score.
type ScoreResult struct {
	FinalScore float64            `json:"final_score"`
	Components map[string]float64 `json:"components"`
	RawValues  map[string]float64 `json:"raw_values"`
}

// Insufficient reports whether the result is the insufficient-data sentinel.
func (r ScoreResult) Insufficient() bool {
	return r.FinalScore == 0 && len(r.Components) == 0
}
