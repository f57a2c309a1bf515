package lane

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNoPoints is returned when a fit is requested over an empty point set.
var ErrNoPoints = errors.New("lane: no points to fit")

// Polynomial2 is a lane boundary x = A*y^2 + B*y + C in image coordinates.
type Polynomial2 struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// At evaluates x at row y.
func (p Polynomial2) At(y float64) float64 {
	return p.A*y*y + p.B*y + p.C
}

// Slope returns dx/dy at row y.
func (p Polynomial2) Slope(y float64) float64 {
	return 2*p.A*y + p.B
}

// FitQuadratic fits x as a quadratic in y by least squares.
//
// When the rows do not carry enough information for a quadratic (fewer than
// three distinct y values, or a rank-deficient system) the degree drops to a
// line and then to a constant, so any non-empty input yields a curve.
func FitQuadratic(ys, xs []float64) (Polynomial2, error) {
	if len(ys) != len(xs) {
		return Polynomial2{}, fmt.Errorf("lane: mismatched point slices (%d ys, %d xs)", len(ys), len(xs))
	}
	if len(ys) == 0 {
		return Polynomial2{}, ErrNoPoints
	}

	degree := min(2, distinct(ys)-1)
	for ; degree > 0; degree-- {
		coef, err := solveLeastSquares(ys, xs, degree)
		if err == nil {
			return coef, nil
		}
	}
	return Polynomial2{C: stat.Mean(xs, nil)}, nil
}

// solveLeastSquares solves the Vandermonde system for the given degree (1 or 2).
func solveLeastSquares(ys, xs []float64, degree int) (Polynomial2, error) {
	cols := degree + 1
	a := mat.NewDense(len(ys), cols, nil)
	for i, y := range ys {
		v := 1.0
		for c := cols - 1; c >= 0; c-- {
			a.Set(i, c, v)
			v *= y
		}
	}
	b := mat.NewVecDense(len(xs), append([]float64(nil), xs...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return Polynomial2{}, err
	}
	if degree == 1 {
		return Polynomial2{B: coef.AtVec(0), C: coef.AtVec(1)}, nil
	}
	return Polynomial2{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2)}, nil
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, 8)
	for _, v := range values {
		seen[v] = struct{}{}
		if len(seen) > 2 {
			break
		}
	}
	return len(seen)
}
