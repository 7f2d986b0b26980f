package glm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// Solver selects the optimization strategy run at each lambda.
type Solver int

const (
	// BatchGradient takes full-gradient proximal steps with a fixed learning rate.
	BatchGradient Solver = iota
	// CDFast runs cycles of single-coordinate Newton updates over an active set.
	CDFast
)

var solverNames = [...]string{
	BatchGradient: "batch-gradient",
	CDFast:        "cdfast",
}

// String returns the configuration name of the solver.
func (s Solver) String() string {
	if s == BatchGradient || s == CDFast {
		return solverNames[s]
	}
	return fmt.Sprintf("Solver(%d)", int(s))
}

// ParseSolver maps a configuration name to a Solver.
func ParseSolver(name string) (Solver, error) {
	for i, n := range solverNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Solver(i), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrUnknownSolver, "%q", name)
}

// solverState is the working set of one lambda's optimization. It is owned
// by the path driver and mutated only by the step functions below.
type solverState struct {
	beta0 []float64  // K intercepts
	beta  *mat.Dense // n_features x K
	z     *mat.Dense // n_samples x K, beta0 + X beta

	// active[0] is the intercept, active[j+1] is feature j.
	active []bool

	// scratch buffers sized n_samples x K and n_samples
	g, h *mat.Dense
	xk   []float64
}

// newSolverState copies the warm start and computes z from scratch.
func newSolverState(X *mat.Dense, beta0 []float64, beta *mat.Dense) *solverState {
	n, p := X.Dims()
	_, k := beta.Dims()
	s := &solverState{
		beta0:  append([]float64(nil), beta0...),
		beta:   mat.DenseCopyOf(beta),
		active: make([]bool, p+1),
		g:      mat.NewDense(n, k, nil),
		h:      mat.NewDense(n, k, nil),
		xk:     make([]float64, n),
	}
	for i := range s.active {
		s.active[i] = true
	}
	s.refreshZ(X)
	return s
}

// linearPredictor returns beta0 + X beta.
func linearPredictor(X mat.Matrix, beta0 []float64, beta mat.Matrix) *mat.Dense {
	n, _ := X.Dims()
	_, k := beta.Dims()
	z := mat.NewDense(n, k, nil)
	z.Mul(X, beta)
	for i := 0; i < n; i++ {
		floats.Add(z.RawRowView(i), beta0)
	}
	return z
}

func (s *solverState) refreshZ(X *mat.Dense) {
	s.z = linearPredictor(X, s.beta0, s.beta)
}

// batchStep moves beta0 and beta one learning-rate step against the gradient
// of the smooth part of the objective.
func (s *solverState) batchStep(f family, pen *penalty, X, y *mat.Dense, lambda, lr float64) {
	n, _ := X.Dims()
	f.derivMatrices(y, s.z, s.g, nil)

	_, k := s.g.Dims()
	for c := 0; c < k; c++ {
		s.beta0[c] -= lr * floats.Sum(mat.Col(nil, c, s.g)) / float64(n)
	}

	var grad mat.Dense
	grad.Mul(X.T(), s.g)
	grad.Scale(1/float64(n), &grad)
	pen.addL2Gradient(&grad, s.beta, lambda*(1-pen.alpha))

	grad.Scale(lr, &grad)
	s.beta.Sub(s.beta, &grad)
}

// cdfastCycle performs one sweep of Newton updates over the active
// coordinates, intercept first, keeping z in step with every update.
// A coordinate whose curvature is zero or not finite is left unchanged.
func (s *solverState) cdfastCycle(f family, pen *penalty, X, y *mat.Dense, lambda float64) {
	n, p := X.Dims()
	_, k := s.beta.Dims()
	regScale := lambda * (1 - pen.alpha)
	zr := s.z.RawMatrix()

	for j := 0; j <= p; j++ {
		if !s.active[j] {
			continue
		}
		if j == 0 {
			for i := range s.xk {
				s.xk[i] = 1
			}
		} else {
			mat.Col(s.xk, j-1, X)
		}

		f.derivMatrices(y, s.z, s.g, s.h)
		gr, hr := s.g.RawMatrix(), s.h.RawMatrix()

		for c := 0; c < k; c++ {
			var gk, hk float64
			for i, x := range s.xk {
				gk += gr.Data[i*gr.Stride+c] * x
				hk += hr.Data[i*hr.Stride+c] * x * x
			}
			gk /= float64(n)
			hk /= float64(n)

			if j > 0 {
				gk += regScale * pen.l2Grad(s.beta, j-1, c)
				hk += regScale * pen.l2Hess(j-1)
			}
			if hk == 0 || math.IsNaN(hk) || math.IsInf(hk, 0) || math.IsNaN(gk) || math.IsInf(gk, 0) {
				continue
			}

			update := gk / hk
			if j == 0 {
				s.beta0[c] -= update
			} else {
				s.beta.Set(j-1, c, s.beta.At(j-1, c)-update)
			}
			for i, x := range s.xk {
				zr.Data[i*zr.Stride+c] -= update * x
			}
		}
	}
}

// proximal shrinks beta at thresh. When X is non-nil, z is moved by the
// same change column by column instead of being recomputed.
func (s *solverState) proximal(pen *penalty, thresh float64, X *mat.Dense) {
	if X == nil {
		pen.prox(s.beta, thresh)
		return
	}

	before := mat.DenseCopyOf(s.beta)
	pen.prox(s.beta, thresh)

	p, k := s.beta.Dims()
	zr := s.z.RawMatrix()
	for j := 0; j < p; j++ {
		for c := 0; c < k; c++ {
			delta := s.beta.At(j, c) - before.At(j, c)
			if delta == 0 {
				continue
			}
			mat.Col(s.xk, j, X)
			for i, x := range s.xk {
				zr.Data[i*zr.Stride+c] += delta * x
			}
		}
	}
}

// pruneActive drops features whose coefficients are zero in every class.
func (s *solverState) pruneActive() int {
	p, k := s.beta.Dims()
	n := 1
	for j := 0; j < p; j++ {
		if !s.active[j+1] {
			continue
		}
		zero := true
		for c := 0; c < k; c++ {
			if s.beta.At(j, c) != 0 {
				zero = false
				break
			}
		}
		if zero {
			s.active[j+1] = false
			continue
		}
		n++
	}
	return n
}

// objective returns -logL + lambda * penalty at the current state.
func (s *solverState) objective(f family, pen *penalty, y *mat.Dense, lambda float64) float64 {
	return -f.logLikelihood(y, s.z) + lambda*pen.value(s.beta)
}
