package indicators

import (
	"math"

	"StockSentry/internal/domain/models"
)

// adxNeutral is returned when the series is too short to compute ADX at all.
// 20 sits on the usual "trend / no trend" boundary, so short histories read
// as neither trending nor flat.
const adxNeutral = 20.0

// ADX computes the Average Directional Index with Wilder smoothing and returns
// the last valid value. It needs at least 2*period+1 bars; shorter input falls
// back to the neutral default rather than failing.
func ADX(bars models.PriceSeries, period int) float64 {
	n := len(bars)
	if period <= 0 || n < 2*period+1 {
		return adxNeutral
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := make([]float64, n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}

	// Initial Wilder sums over the first period of movement.
	smTR, smPlus, smMinus := 0.0, 0.0, 0.0
	for i := 1; i <= period; i++ {
		smTR += trs[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dxs := make([]float64, 0, n-period)
	dxs = append(dxs, dxValue(smPlus, smMinus, smTR))
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(period) + trs[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		dxs = append(dxs, dxValue(smPlus, smMinus, smTR))
	}

	// First ADX is the mean of the first period DX values, then Wilder-smoothed.
	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= float64(period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}
	return adx
}

func dxValue(smPlus, smMinus, smTR float64) float64 {
	if smTR == 0 {
		return 0
	}
	pdi := 100 * smPlus / smTR
	mdi := 100 * smMinus / smTR
	if pdi+mdi == 0 {
		return 0
	}
	return 100 * math.Abs(pdi-mdi) / (pdi + mdi)
}
