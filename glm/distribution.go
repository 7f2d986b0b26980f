package glm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/core/parallel"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// Distribution selects the likelihood family and its mean function.
type Distribution int

const (
	// Gaussian uses the identity mean function and squared error likelihood.
	Gaussian Distribution = iota
	// Binomial uses the logistic mean function.
	Binomial
	// Poisson uses exp(z), linearized above eta.
	Poisson
	// Softplus uses log(1+exp(z)) with a Poisson likelihood.
	Softplus
	// Multinomial uses a row-wise softmax over classes.
	Multinomial
)

var distributionNames = [...]string{
	Gaussian:    "gaussian",
	Binomial:    "binomial",
	Poisson:     "poisson",
	Softplus:    "softplus",
	Multinomial: "multinomial",
}

// String returns the lower-case name used in configuration.
func (d Distribution) String() string {
	if d.valid() {
		return distributionNames[d]
	}
	return fmt.Sprintf("Distribution(%d)", int(d))
}

func (d Distribution) valid() bool {
	return d >= Gaussian && d <= Multinomial
}

// isCount reports whether the saturated log-likelihood enters deviance and pseudo-R².
func (d Distribution) isCount() bool {
	return d == Poisson || d == Softplus
}

// ParseDistribution maps a configuration name to a Distribution.
func ParseDistribution(name string) (Distribution, error) {
	for i, n := range distributionNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Distribution(i), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrUnknownDistribution, "%q", name)
}

// tiny floors poisson and softplus means so that log and division stay finite.
const tiny = math.SmallestNonzeroFloat64

// softplusExpThreshold is the z below which log(softplus(z)) is replaced by z.
const softplusExpThreshold = -30.0

func expit(z float64) float64 {
	return 0.5 * (1 + math.Tanh(0.5*z))
}

func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}

// family binds a distribution to the poisson linearization threshold.
type family struct {
	distr Distribution
	eta   float64
}

// mean is qu(z) for the scalar distributions.
func (f family) mean(z float64) float64 {
	switch f.distr {
	case Gaussian:
		return z
	case Binomial:
		return expit(z)
	case Poisson:
		if z > f.eta {
			slope := math.Exp(f.eta)
			return z*slope + (1-f.eta)*slope
		}
		return math.Max(math.Exp(z), tiny)
	case Softplus:
		return math.Max(softplus(z), tiny)
	case Multinomial:
		panic("glm: scalar mean called for multinomial")
	default:
		panic(fmt.Sprintf("glm: unknown distribution %d", int(f.distr)))
	}
}

// logMean returns log(qu(z)) for poisson and softplus, using z directly where
// the mean is exp(z) or numerically indistinguishable from it.
func (f family) logMean(z, mu float64) float64 {
	switch {
	case f.distr == Poisson && z <= f.eta:
		return z
	case f.distr == Softplus && z < softplusExpThreshold:
		return z
	default:
		return math.Log(mu)
	}
}

// softmaxRow writes the softmax of z into out.
func softmaxRow(z, out []float64) {
	m := math.Inf(-1)
	for _, v := range z {
		if v > m {
			m = v
		}
	}
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - m)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
}

// meanMatrix applies qu to every row of z.
func (f family) meanMatrix(z *mat.Dense) *mat.Dense {
	n, k := z.Dims()
	mu := mat.NewDense(n, k, nil)
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			zi := z.RawRowView(i)
			mi := mu.RawRowView(i)
			if f.distr == Multinomial {
				softmaxRow(zi, mi)
				continue
			}
			for c, v := range zi {
				mi[c] = f.mean(v)
			}
		}
	})
	return mu
}

// logLikelihood is the mean log-likelihood of y given the linear predictor z.
func (f family) logLikelihood(y, z *mat.Dense) float64 {
	n, k := z.Dims()
	sum := parallel.SumWithThreshold(n, parallel.DefaultThreshold, func(start, end int) float64 {
		var s float64
		for i := start; i < end; i++ {
			yi := y.RawRowView(i)
			zi := z.RawRowView(i)
			if f.distr == Multinomial {
				lse := errors.LogSumExp(zi)
				for c := 0; c < k; c++ {
					s += yi[c] * (zi[c] - lse)
				}
				continue
			}
			for c := 0; c < k; c++ {
				s += f.pointLogLikelihood(yi[c], zi[c])
			}
		}
		return s
	})
	return sum / float64(n)
}

func (f family) pointLogLikelihood(y, z float64) float64 {
	switch f.distr {
	case Gaussian:
		d := y - z
		return -0.5 * d * d
	case Binomial:
		return y*z - softplus(z)
	case Poisson, Softplus:
		mu := f.mean(z)
		if y == 0 {
			return -mu
		}
		return y*f.logMean(z, mu) - mu
	default:
		panic(fmt.Sprintf("glm: no pointwise likelihood for %s", f.distr))
	}
}

// derivs returns the first and second derivatives of the negative
// log-likelihood of a single observation with respect to z.
func (f family) derivs(y, z float64) (g, h float64) {
	switch f.distr {
	case Gaussian:
		return z - y, 1
	case Binomial:
		mu := expit(z)
		return mu - y, mu * (1 - mu)
	case Poisson:
		mu := f.mean(z)
		if z <= f.eta {
			return mu - y, mu
		}
		slope := math.Exp(f.eta)
		return slope * (1 - y/mu), slope * slope * y / (mu * mu)
	case Softplus:
		s := expit(z)
		r := 1.0
		if z >= softplusExpThreshold {
			r = s / f.mean(z)
		}
		return s - y*r, s*(1-s) - y*(r*(1-s)-r*r)
	default:
		panic(fmt.Sprintf("glm: no pointwise derivatives for %s", f.distr))
	}
}

// derivMatrices fills g and h (both n x K) with per-observation derivatives
// of the negative log-likelihood at z. h may be nil.
func (f family) derivMatrices(y, z, g, h *mat.Dense) {
	n, k := z.Dims()
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			yi := y.RawRowView(i)
			zi := z.RawRowView(i)
			gi := g.RawRowView(i)
			var hi []float64
			if h != nil {
				hi = h.RawRowView(i)
			}
			if f.distr == Multinomial {
				softmaxRow(zi, gi)
				for c := 0; c < k; c++ {
					mu := gi[c]
					gi[c] = mu - yi[c]
					if hi != nil {
						hi[c] = mu * (1 - mu)
					}
				}
				continue
			}
			for c := 0; c < k; c++ {
				gc, hc := f.derivs(yi[c], zi[c])
				gi[c] = gc
				if hi != nil {
					hi[c] = hc
				}
			}
		}
	})
}
