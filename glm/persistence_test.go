package glm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/core/model"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

func fittedMultinomial(t *testing.T) (*GLM, *mat.Dense) {
	t.Helper()
	W := mat.NewDense(3, 3, []float64{1, -1, 0, 0, 1, -1, 0.5, 0, -0.5})
	X, Y := multinomialData(120, W, 301)
	g := NewGLM(
		WithDistr(Multinomial),
		WithTau(mat.NewDiagDense(3, []float64{1, 1, 2})),
		WithRegLambda(0.1, 0.02),
		WithRandomState(3),
	)
	require.NoError(t, g.Fit(X, Y))
	return g, X
}

func TestSaveLoadRoundTrip(t *testing.T) {
	quietLogs(t)
	g, X := fittedMultinomial(t)

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.True(t, loaded.IsFitted())
	assert.Equal(t, g.GetParams(), loaded.GetParams())
	assert.Equal(t, g.YNull(), loaded.YNull())
	assert.Equal(t, g.Classes(), loaded.Classes())

	want, err := g.PredictProba(X)
	require.NoError(t, err)
	got, err := loaded.PredictProba(X)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, mat.Equal(want[i], got[i]))
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a model")))
	assert.Error(t, err)
}

func TestWeightsJSONRoundTrip(t *testing.T) {
	quietLogs(t)
	g, X := fittedMultinomial(t)

	mw, err := g.ExportWeights()
	require.NoError(t, err)
	assert.Equal(t, "GLM", mw.ModelType)
	assert.Equal(t, 3, mw.NFeatures)
	assert.Equal(t, 3, mw.NClasses)
	require.Len(t, mw.Path, 2)
	assert.Equal(t, 0.1, mw.Path[0].Lambda)

	data, err := mw.ToJSON()
	require.NoError(t, err)
	var decoded model.ModelWeights
	require.NoError(t, decoded.FromJSON(data))

	fresh := NewGLM(WithDistr(Multinomial))
	require.NoError(t, fresh.ImportWeights(&decoded))
	assert.True(t, fresh.IsFitted())
	assert.Equal(t, []float64{0.1, 0.02}, fresh.Lambdas())
	assert.Equal(t, g.Classes(), fresh.Classes())
	assert.InDeltaSlice(t, g.YNull(), fresh.YNull(), 1e-15)

	want, err := g.Predict(X)
	require.NoError(t, err)
	got, err := fresh.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestImportWeightsChecksDistribution(t *testing.T) {
	quietLogs(t)
	g, _ := fittedMultinomial(t)
	mw, err := g.ExportWeights()
	require.NoError(t, err)

	var ve *errors.ValidationError
	err = NewGLM(WithDistr(Poisson)).ImportWeights(mw)
	assert.True(t, errors.As(err, &ve))

	mw.Version = "0"
	err = NewGLM(WithDistr(Multinomial)).ImportWeights(mw)
	assert.True(t, errors.As(err, &ve))
}
