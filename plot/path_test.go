package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/glm"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

func records() []glm.FitRecord {
	return []glm.FitRecord{
		{Lambda: 0.5, Beta0: []float64{0}, Beta: mat.NewDense(2, 1, []float64{0, 0.1})},
		{Lambda: 0.1, Beta0: []float64{0}, Beta: mat.NewDense(2, 1, []float64{0.4, 0.3})},
		{Lambda: 0, Beta0: []float64{0}, Beta: mat.NewDense(2, 1, []float64{0.9, 0.5})},
	}
}

func TestPathSeries(t *testing.T) {
	series, labels, err := pathSeries(records())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, []string{"x0", "x1"}, labels)

	// lambda 0 has no log and is dropped
	require.Len(t, series[0], 2)
	assert.InDelta(t, math.Log(0.5), series[0][0].X, 1e-12)
	assert.InDelta(t, math.Log(0.1), series[0][1].X, 1e-12)
	assert.Equal(t, 0.4, series[0][1].Y)
	assert.Equal(t, 0.3, series[1][1].Y)
}

func TestPathSeriesMultinomialLabels(t *testing.T) {
	recs := []glm.FitRecord{
		{Lambda: 0.2, Beta0: []float64{0, 0}, Beta: mat.NewDense(2, 2, []float64{1, 2, 3, 4})},
	}
	series, labels, err := pathSeries(recs)
	require.NoError(t, err)
	assert.Equal(t, []string{"x0[0]", "x0[1]", "x1[0]", "x1[1]"}, labels)
	assert.Equal(t, 4.0, series[3][0].Y)
}

func TestPathSeriesErrors(t *testing.T) {
	_, _, err := pathSeries(nil)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, _, err = pathSeries([]glm.FitRecord{{Lambda: 0, Beta: mat.NewDense(1, 1, nil)}})
	assert.True(t, errors.As(err, &ve))

	mixed := records()
	mixed[1].Beta = mat.NewDense(3, 1, nil)
	_, _, err = pathSeries(mixed)
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestWriteToPNG(t *testing.T) {
	pp := NewPathPlotter().Size(3, 2)
	require.NoError(t, pp.Add(records()))

	var buf bytes.Buffer
	n, err := pp.WriteTo(&buf, "png")
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestSavePath(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 0,
		0, 2,
		1, 2,
	})
	y := mat.NewVecDense(6, []float64{1, 0, 2, 3, 1, 4})

	g := glm.NewGLM(glm.WithDistr(glm.Gaussian), glm.WithRegLambda(0.3, 0.1, 0.03))
	fname := filepath.Join(t.TempDir(), "path.svg")

	err := SavePath(g, fname)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))

	require.NoError(t, g.Fit(X, y))
	require.NoError(t, SavePath(g, fname))

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
