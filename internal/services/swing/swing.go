// Package swing finds local extrema in a price series and classifies
// divergence between price and momentum oscillators.
package swing

import "StockSentry/internal/domain/models"

// FindSwingPoints returns the local extrema of the series, in index order.
// A point is a swing low (high) when it is strictly below (above) every
// point within order steps on both sides; ties disqualify a point. Points
// closer than order to either edge have no full window and are never swings.
//
// When a flat shelf hides the extremum between two same-kind swings, the
// weaker of the pair is dropped so the returned sequence always alternates
// kinds.
func FindSwingPoints(series []float64, order int) []models.SwingPoint {
	if order <= 0 || len(series) < 2*order+1 {
		return nil
	}

	points := make([]models.SwingPoint, 0, 8)
	for i := order; i < len(series)-order; i++ {
		isLow, isHigh := true, true
		for j := i - order; j <= i+order; j++ {
			if j == i {
				continue
			}
			if series[j] <= series[i] {
				isLow = false
			}
			if series[j] >= series[i] {
				isHigh = false
			}
			if !isLow && !isHigh {
				break
			}
		}
		switch {
		case isLow:
			points = appendAlternating(points, models.SwingPoint{Index: i, Price: series[i], Kind: models.SwingLow})
		case isHigh:
			points = appendAlternating(points, models.SwingPoint{Index: i, Price: series[i], Kind: models.SwingHigh})
		}
	}
	return points
}

// appendAlternating keeps the more extreme of two same-kind neighbours.
func appendAlternating(points []models.SwingPoint, p models.SwingPoint) []models.SwingPoint {
	if len(points) == 0 || points[len(points)-1].Kind != p.Kind {
		return append(points, p)
	}
	last := points[len(points)-1]
	replace := (p.Kind == models.SwingLow && p.Price < last.Price) ||
		(p.Kind == models.SwingHigh && p.Price > last.Price)
	if replace {
		points[len(points)-1] = p
	}
	return points
}

// RecentSwingPoints restricts detection to the trailing lookback bars and
// returns at most n points, nearest-first. Indices refer to the full series.
func RecentSwingPoints(series []float64, n, lookback, order int) []models.SwingPoint {
	if len(series) == 0 || n <= 0 {
		return nil
	}
	start := 0
	if lookback > 0 && len(series) > lookback {
		start = len(series) - lookback
	}
	pts := FindSwingPoints(series[start:], order)
	out := make([]models.SwingPoint, 0, n)
	for i := len(pts) - 1; i >= 0 && len(out) < n; i-- {
		p := pts[i]
		p.Index += start
		out = append(out, p)
	}
	return out
}

// lastTwoOfKind returns the two most recent swing points of one kind within
// the trailing lookback, oldest first, or false when fewer than two exist.
func lastTwoOfKind(series []float64, lookback, order int, kind models.SwingKind) (prior, latest models.SwingPoint, ok bool) {
	pts := RecentSwingPoints(series, 8, lookback, order)
	found := make([]models.SwingPoint, 0, 2)
	for _, p := range pts { // nearest-first
		if p.Kind == kind {
			found = append(found, p)
			if len(found) == 2 {
				return found[1], found[0], true
			}
		}
	}
	return models.SwingPoint{}, models.SwingPoint{}, false
}
