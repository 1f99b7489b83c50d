package scoring

import (
	"fmt"
	"math"
	"sort"
)

// Component names per variant. A weight table may only reference these.
const (
	CompRSI             = "rsi"
	CompWilliamsR       = "williams_r"
	CompStochK          = "stoch_k"
	CompPctFromSMA200   = "pct_from_sma200"
	CompConsecutiveDays = "consecutive_days"
	CompVolumeRatio     = "volume_ratio"
	CompMACDHist        = "macd_hist"
	CompADX             = "adx"
	CompDivergence      = "divergence"
	CompBBPosition      = "bb_position"
)

// Weights is an immutable weight table for one score variant. Build one with
// NewWeights; a table that does not sum to 1.0 is an operator mistake and is
// rejected at construction, not at scoring time.
type Weights struct {
	byComponent map[string]float64
}

const weightSumTolerance = 1e-9

// NewWeights validates and freezes a weight table. allowed is the component
// set of the variant the table is for.
func NewWeights(table map[string]float64, allowed []string) (Weights, error) {
	if len(table) == 0 {
		return Weights{}, fmt.Errorf("weights: empty table")
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}
	sum := 0.0
	for name, w := range table {
		if !allowedSet[name] {
			return Weights{}, fmt.Errorf("weights: unknown component %q", name)
		}
		if w < 0 || w > 1 {
			return Weights{}, fmt.Errorf("weights: component %q weight %v outside [0,1]", name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return Weights{}, fmt.Errorf("weights: table sums to %v, want 1.0", sum)
	}
	frozen := make(map[string]float64, len(table))
	for name, w := range table {
		frozen[name] = w
	}
	return Weights{byComponent: frozen}, nil
}

// Get returns the weight for a component, zero when absent.
func (w Weights) Get(component string) float64 { return w.byComponent[component] }

// Components returns the component names in stable order.
func (w Weights) Components() []string {
	out := make([]string, 0, len(w.byComponent))
	for name := range w.byComponent {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Default weight tables, mirroring the tuning the screeners shipped with.
var (
	defaultOversoldWeights = map[string]float64{
		CompRSI:             0.25,
		CompWilliamsR:       0.15,
		CompStochK:          0.15,
		CompPctFromSMA200:   0.20,
		CompConsecutiveDays: 0.15,
		CompVolumeRatio:     0.10,
	}
	defaultBullishWeights = map[string]float64{
		CompRSI:             0.20,
		CompMACDHist:        0.20,
		CompADX:             0.15,
		CompPctFromSMA200:   0.20,
		CompConsecutiveDays: 0.10,
		CompVolumeRatio:     0.15,
	}
	defaultReversalWeights = map[string]float64{
		CompRSI:             0.20,
		CompDivergence:      0.30,
		CompStochK:          0.15,
		CompConsecutiveDays: 0.15,
		CompBBPosition:      0.10,
		CompVolumeRatio:     0.10,
	}
)

// Allowed component sets per variant.
var (
	oversoldComponents = []string{
		CompRSI, CompWilliamsR, CompStochK, CompPctFromSMA200, CompConsecutiveDays, CompVolumeRatio,
	}
	bullishComponents = []string{
		CompRSI, CompMACDHist, CompADX, CompPctFromSMA200, CompConsecutiveDays, CompVolumeRatio,
	}
	reversalComponents = []string{
		CompRSI, CompDivergence, CompStochK, CompConsecutiveDays, CompBBPosition, CompVolumeRatio,
	}
)
