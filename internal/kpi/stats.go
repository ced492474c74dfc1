package kpi

import (
	"errors"
	"math"
	"sort"
)

// errSingular reports a regression system that cannot be solved.
var errSingular = errors.New("singular or ill-conditioned system")

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStd is the sample standard deviation (n-1 denominator). Fewer than
// two observations have no dispersion to estimate; zero is reported instead
// of NaN so the value stays JSON-representable.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

func describe(xs []float64) *Stats {
	lo, hi := minMax(xs)
	return &Stats{Min: lo, Max: hi, Promedio: mean(xs), Std: sampleStd(xs)}
}

func describeDist(xs []float64) *DistStats {
	lo, hi := minMax(xs)
	return &DistStats{Min: lo, Max: hi, Promedio: mean(xs), Mediana: median(xs), Std: sampleStd(xs)}
}

// pearson computes the Pearson correlation of two equal-length samples.
// ok is false when either sample has zero variance or the result is not
// finite.
func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// olsFit fits y = X·beta by solving the normal equations, where each row of
// X already includes the leading intercept column. Returns the coefficients
// and the clamped coefficient of determination.
func olsFit(X [][]float64, y []float64) (beta []float64, r2 float64, err error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, 0, errSingular
	}
	p := len(X[0])

	// Normal equations: (Xᵀ X) beta = Xᵀ y.
	xtx := make([][]float64, p)
	xty := make([]float64, p)
	for i := range xtx {
		xtx[i] = make([]float64, p)
	}
	for r := range X {
		for i := 0; i < p; i++ {
			xty[i] += X[r][i] * y[r]
			for j := 0; j < p; j++ {
				xtx[i][j] += X[r][i] * X[r][j]
			}
		}
	}

	beta, err = solveLinear(xtx, xty)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range beta {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, 0, errSingular
		}
	}

	var ssRes, ssTot float64
	my := mean(y)
	for r := range X {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += X[r][i] * beta[i]
		}
		ssRes += (y[r] - pred) * (y[r] - pred)
		ssTot += (y[r] - my) * (y[r] - my)
	}
	r2 = 0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	r2 = math.Max(0, math.Min(1, r2))
	return beta, r2, nil
}

// solveLinear solves A·x = b by Gaussian elimination with partial pivoting.
func solveLinear(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	// Augmented working copy.
	m := make([][]float64, n)
	for i := range m {
		m[i] = append(append([]float64(nil), A[i]...), b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, errSingular
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}

// quantile computes the q-th quantile of a sorted sample with linear
// interpolation between the closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// quintileLabels are the bucket labels in ascending index order.
var quintileLabels = [5]string{"Q1", "Q2", "Q3", "Q4", "Q5"}

// quintileCuts builds the six equal-frequency bin edges for the sample.
// ok is false when adjacent edges collide, which means the sample cannot be
// split into five distinct buckets.
func quintileCuts(values []float64) ([6]float64, bool) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var edges [6]float64
	for i := 0; i <= 5; i++ {
		edges[i] = quantile(sorted, float64(i)/5)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return edges, false
		}
	}
	return edges, true
}

// quintileOf assigns a value to its bucket given the cut edges. The first
// bucket is closed on both sides; later buckets exclude their lower edge.
func quintileOf(v float64, edges [6]float64) string {
	for i := 0; i < 4; i++ {
		if v <= edges[i+1] {
			return quintileLabels[i]
		}
	}
	return quintileLabels[4]
}

// admissionIndex blends the admission-test score and diagnostic score into a
// single scalar: their mean when both are present, the available one
// otherwise. ok is false when neither is present.
func admissionIndex(puntaje, diagnostico *float64) (float64, bool) {
	switch {
	case puntaje != nil && diagnostico != nil:
		return (*puntaje + *diagnostico) / 2, true
	case puntaje != nil:
		return *puntaje, true
	case diagnostico != nil:
		return *diagnostico, true
	default:
		return 0, false
	}
}
