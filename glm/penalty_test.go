package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

func column(v ...float64) *mat.Dense {
	return mat.NewDense(len(v), 1, v)
}

func mustPenalty(t *testing.T, alpha float64, tau mat.Matrix, group []int, p int) *penalty {
	t.Helper()
	pen, err := newPenalty(alpha, tau, group, p)
	require.NoError(t, err)
	return pen
}

func TestSoftThreshold(t *testing.T) {
	tests := []struct {
		v, thresh, want float64
	}{
		{3, 1, 2},
		{-3, 1, -2},
		{0.5, 1, 0},
		{-0.5, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
		{-2, 0, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, softThreshold(tt.v, tt.thresh), "softThreshold(%v, %v)", tt.v, tt.thresh)
	}
}

func TestProxZeroThresholdIsNoOp(t *testing.T) {
	beta := []float64{1.5, -0.2, 0, 3, -4}

	for _, group := range [][]int{nil, {1, 1, 2, 2, 0}, {0, 0, 0, 0, 0}} {
		pen := mustPenalty(t, 1, nil, group, len(beta))
		b := column(beta...)
		pen.prox(b, 0)
		assert.Equal(t, beta, mat.Col(nil, 0, b), "group %v", group)
	}
}

func TestProxZeroPatternIsStable(t *testing.T) {
	beta := []float64{1.5, -0.2, 0.05, 3, -4, 0.7}
	const thresh = 0.5

	for _, group := range [][]int{nil, {1, 1, 2, 2, 0, 0}} {
		pen := mustPenalty(t, 1, nil, group, len(beta))
		once := column(beta...)
		pen.prox(once, thresh)
		twice := mat.DenseCopyOf(once)
		pen.prox(twice, thresh)

		for j := range beta {
			if once.At(j, 0) == 0 {
				assert.Equal(t, 0.0, twice.At(j, 0), "group %v: entry %d left zero", group, j)
			}
			// a second shrink never flips a sign
			assert.True(t, once.At(j, 0)*twice.At(j, 0) >= 0)
		}

		// the shrunk vector is a fixed point at threshold zero
		again := mat.DenseCopyOf(once)
		pen.prox(again, 0)
		assert.True(t, mat.Equal(once, again))
	}
}

func TestProxComposesThresholds(t *testing.T) {
	beta := []float64{1.5, -0.2, 0.05, 3, -4, 0.7}
	pen := mustPenalty(t, 1, nil, nil, len(beta))

	twice := column(beta...)
	pen.prox(twice, 0.3)
	pen.prox(twice, 0.3)
	direct := column(beta...)
	pen.prox(direct, 0.6)

	assert.True(t, mat.EqualApprox(twice, direct, 1e-12))
}

func TestGroupProx(t *testing.T) {
	pen := mustPenalty(t, 1, nil, []int{1, 1, 2, 2, 0}, 5)
	b := column(0.1, -0.1, -3, 4, 0.5)

	pen.prox(b, 1)

	got := mat.Col(nil, 0, b)
	// group 1 has norm 0.14 and is removed together
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
	// group 2 has norm 5 and is scaled by 1 - 1/5 without a sign change
	assert.InDelta(t, -2.4, got[2], 1e-12)
	assert.InDelta(t, 3.2, got[3], 1e-12)
	// ungrouped entry is soft-thresholded on its own
	assert.Equal(t, 0.0, got[4])

	b = column(0.1, -0.1, -3, 4, 1.5)
	pen.prox(b, 1)
	assert.InDelta(t, 0.5, b.At(4, 0), 1e-12)
}

func TestPenaltyValue(t *testing.T) {
	beta := column(1, -2)

	plain := mustPenalty(t, 0.5, nil, nil, 2)
	assert.InDelta(t, 5.0, plain.l2(beta), 1e-12)
	assert.InDelta(t, 3.0, plain.l1(beta), 1e-12)
	assert.InDelta(t, 0.25*5+0.5*3, plain.value(beta), 1e-12)

	grouped := mustPenalty(t, 0.5, nil, []int{1, 1}, 2)
	assert.InDelta(t, math.Sqrt(5), grouped.l1(beta), 1e-12)

	tau := mat.NewDense(2, 2, []float64{2, 0, 0, 1})
	tik := mustPenalty(t, 0, tau, nil, 2)
	assert.InDelta(t, 4.0+4.0, tik.l2(beta), 1e-12)
	assert.InDelta(t, 0.5*8, tik.value(beta), 1e-12)
}

func TestPenaltyMultiColumn(t *testing.T) {
	beta := mat.NewDense(2, 2, []float64{1, 3, -2, 0})
	pen := mustPenalty(t, 1, nil, []int{1, 1}, 2)

	assert.InDelta(t, math.Sqrt(5)+3, pen.l1(beta), 1e-12)

	pen.prox(beta, 2.5)
	// column 0 has norm sqrt(5) < 2.5, column 1 has norm 3
	assert.Equal(t, []float64{0, 0}, mat.Col(nil, 0, beta))
	assert.InDelta(t, 0.5, beta.At(0, 1), 1e-12)
}

func TestL2GradientWithTau(t *testing.T) {
	tau := mat.NewDense(2, 2, []float64{1, 1, 0, 1})
	pen := mustPenalty(t, 0, tau, nil, 2)
	beta := column(1, 2)

	// TauᵀTau = [[1 1] [1 2]]
	assert.InDelta(t, 3.0, pen.l2Grad(beta, 0, 0), 1e-12)
	assert.InDelta(t, 5.0, pen.l2Grad(beta, 1, 0), 1e-12)
	assert.InDelta(t, 2.0, pen.l2Hess(1), 1e-12)

	grad := mat.NewDense(2, 1, nil)
	pen.addL2Gradient(grad, beta, 0.5)
	assert.True(t, floats.EqualApprox([]float64{1.5, 2.5}, mat.Col(nil, 0, grad), 1e-12))
}

func TestPenaltyValidation(t *testing.T) {
	tests := []struct {
		name  string
		tau   mat.Matrix
		group []int
	}{
		{name: "tau not square", tau: mat.NewDense(3, 2, nil)},
		{name: "tau wrong size", tau: mat.NewDense(2, 2, nil)},
		{name: "group too short", group: []int{1, 1}},
		{name: "negative group id", group: []int{1, -1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newPenalty(0.5, tt.tau, tt.group, 3)
			require.Error(t, err)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve), "got %T", err)
		})
	}
}

func TestTikhonovIdentityForms(t *testing.T) {
	forms := []struct {
		name string
		tau  mat.Matrix
	}{
		{name: "untyped nil", tau: nil},
		{name: "nil dense", tau: (*mat.Dense)(nil)},
		{name: "empty dense", tau: &mat.Dense{}},
		{name: "nil diagonal", tau: (*mat.DiagDense)(nil)},
	}
	beta := column(1, -2)
	for _, tt := range forms {
		t.Run(tt.name, func(t *testing.T) {
			pen := mustPenalty(t, 0.5, tt.tau, nil, 2)
			assert.Nil(t, pen.tau)
			assert.Nil(t, pen.invCov)
			// 0.5*0.5*(1+4) + 0.5*(1+2)
			assert.InDelta(t, 2.75, pen.value(beta), 1e-12)
		})
	}

	pen := mustPenalty(t, 0, mat.NewDiagDense(2, []float64{2, 1}), nil, 2)
	require.NotNil(t, pen.tau)
	assert.InDelta(t, 0.5*(4+4), pen.value(beta), 1e-12)
}
