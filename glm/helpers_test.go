package glm

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/goglmnet/pkg/log"
)

// quietLogs routes library logs and warnings into a test logger for the
// duration of the test.
func quietLogs(t *testing.T) *log.TestLogger {
	t.Helper()
	provider, logger := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetProvider(provider)
	t.Cleanup(func() {
		log.SetProvider(log.NewZerologProvider(discard{}, log.LevelWarn))
	})
	return logger
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed))
}

// randomDesign returns an n x p matrix of standard normal draws.
func randomDesign(n, p int, seed uint64) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: testRand(seed)}
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, norm.Rand())
		}
	}
	return X
}

// linear returns beta0 + X beta for a single response column.
func linear(X *mat.Dense, beta0 float64, beta []float64) []float64 {
	n, _ := X.Dims()
	z := make([]float64, n)
	for i := range z {
		z[i] = beta0 + mat.Dot(X.RowView(i), mat.NewVecDense(len(beta), beta))
	}
	return z
}

func gaussianData(n int, beta []float64, noise float64, seed uint64) (*mat.Dense, *mat.VecDense) {
	X := randomDesign(n, len(beta), seed)
	eps := distuv.Normal{Mu: 0, Sigma: noise, Src: testRand(seed + 1)}
	z := linear(X, 0, beta)
	for i := range z {
		z[i] += eps.Rand()
	}
	return X, mat.NewVecDense(n, z)
}

func binomialData(n int, beta0 float64, beta []float64, seed uint64) (*mat.Dense, *mat.VecDense) {
	X := randomDesign(n, len(beta), seed)
	src := testRand(seed + 1)
	z := linear(X, beta0, beta)
	y := make([]float64, n)
	for i, zi := range z {
		y[i] = distuv.Bernoulli{P: expit(zi), Src: src}.Rand()
	}
	return X, mat.NewVecDense(n, y)
}

func poissonData(n int, beta0 float64, beta []float64, seed uint64) (*mat.Dense, *mat.VecDense) {
	X := randomDesign(n, len(beta), seed)
	src := testRand(seed + 1)
	z := linear(X, beta0, beta)
	y := make([]float64, n)
	for i, zi := range z {
		y[i] = distuv.Poisson{Lambda: math.Exp(zi), Src: src}.Rand()
	}
	return X, mat.NewVecDense(n, y)
}

// multinomialData draws class labels from softmax(X W) and returns them
// one-hot encoded.
func multinomialData(n int, W *mat.Dense, seed uint64) (*mat.Dense, *mat.Dense) {
	p, k := W.Dims()
	X := randomDesign(n, p, seed)
	src := testRand(seed + 1)
	var z mat.Dense
	z.Mul(X, W)
	Y := mat.NewDense(n, k, nil)
	probs := make([]float64, k)
	for i := 0; i < n; i++ {
		softmaxRow(z.RawRowView(i), probs)
		c := int(distuv.NewCategorical(probs, src).Rand())
		Y.Set(i, c, 1)
	}
	return X, Y
}
