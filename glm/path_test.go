package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestDefaultLambdas(t *testing.T) {
	l := DefaultLambdas()
	require.Len(t, l, 10)
	assert.InDelta(t, 0.5, l[0], 1e-12)
	assert.InDelta(t, 0.01, l[9], 1e-12)
	for i := 1; i < len(l); i++ {
		assert.Less(t, l[i], l[i-1])
		// constant ratio in log space
		assert.InDelta(t, math.Log(l[1]/l[0]), math.Log(l[i]/l[i-1]), 1e-9)
	}
}

func TestInitialCoefficientsAreSeeded(t *testing.T) {
	b0a, ba := initialCoefficients(4, 2, 7)
	b0b, bb := initialCoefficients(4, 2, 7)
	b0c, _ := initialCoefficients(4, 2, 8)

	assert.Equal(t, b0a, b0b)
	assert.True(t, mat.Equal(ba, bb))
	assert.False(t, floats.Equal(b0a, b0c))

	// scaled by 1/(n_features+1)
	for _, v := range ba.RawMatrix().Data {
		assert.Less(t, math.Abs(v), 1.5)
	}
}

func TestWarmStartEquivalence(t *testing.T) {
	quietLogs(t)
	X, y := gaussianData(80, []float64{1, -2, 0.5}, 0.3, 71)
	opts := []Option{
		WithDistr(Gaussian),
		WithAlpha(0),
		WithSolver(CDFast),
		WithTol(1e-12),
		WithMaxIter(5000),
	}

	direct := NewGLM(append(opts, WithRegLambda(0.1))...)
	require.NoError(t, direct.Fit(X, y))

	path := NewGLM(append(opts, WithRegLambda(1.0, 0.1))...)
	require.NoError(t, path.Fit(X, y))

	d := direct.FitRecords()[0]
	p := path.FitRecords()[1]
	assert.InDelta(t, d.Beta0[0], p.Beta0[0], 1e-4)
	assert.True(t, mat.EqualApprox(d.Beta, p.Beta, 1e-4), "direct %v, warm %v",
		mat.Formatted(d.Beta.T()), mat.Formatted(p.Beta.T()))
}

func TestConvergenceCheckStartsAtThirdIteration(t *testing.T) {
	quietLogs(t)
	X, y := gaussianData(50, []float64{1, 1}, 0.1, 81)

	// a huge tolerance stops as soon as the check is allowed to run
	g := NewGLM(WithDistr(Gaussian), WithTol(1e9), WithRegLambda(0.1, 0.05))
	require.NoError(t, g.Fit(X, y))
	for _, r := range g.FitRecords() {
		assert.Len(t, r.Losses, 3)
	}
}

func TestExhaustedIterationsWarn(t *testing.T) {
	logger := quietLogs(t)
	X, y := gaussianData(50, []float64{1, 1}, 0.1, 82)

	g := NewGLM(WithDistr(Gaussian), WithTol(0), WithMaxIter(4), WithRegLambda(0.1))
	require.NoError(t, g.Fit(X, y), "running out of iterations is not an error")
	assert.Len(t, g.FitRecords()[0].Losses, 4)
	assert.True(t, logger.ContainsMessage("failed to converge"))
}

func TestDivergenceAbortsFit(t *testing.T) {
	quietLogs(t)
	X, y := gaussianData(50, []float64{3, -3}, 0.1, 83)
	for i := 0; i < 50; i++ {
		X.Set(i, 0, X.At(i, 0)*1e3)
	}

	g := NewGLM(WithDistr(Gaussian), WithLearningRate(50), WithRegLambda(0.1), WithTol(0))
	err := g.Fit(X, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numerical instability")
	assert.False(t, g.IsFitted())
}

func TestVerboseLogsPathAtInfo(t *testing.T) {
	logger := quietLogs(t)
	X, y := gaussianData(40, []float64{1}, 0.1, 84)

	g := NewGLM(WithDistr(Gaussian), WithVerbose(true), WithRegLambda(0.2))
	require.NoError(t, g.Fit(X, y))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	found := false
	for _, e := range entries {
		if e["message"] == "Looping through the regularization path" {
			assert.Equal(t, "INFO", e["level"])
			found = true
		}
	}
	assert.True(t, found)
}
