package match

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// WilsonInterval returns the Wilson score interval for a win rate of wins
// out of n games at the given two-sided confidence level, such as 0.95.
// With no games the interval is [0, 1].
func WilsonInterval(wins, n int, confidence float64) (lo, hi float64) {
	if n <= 0 || confidence >= 1 {
		return 0, 1
	}
	p := float64(wins) / float64(n)
	if confidence <= 0 {
		return p, p
	}

	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	nf := float64(n)
	z2 := z * z
	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// WhiteWinInterval returns the Wilson interval of WhiteWinRate.
func (t Tally) WhiteWinInterval(confidence float64) (lo, hi float64) {
	return WilsonInterval(t.WhiteWins, t.Total(), confidence)
}
