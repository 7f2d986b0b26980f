package glm

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// ScoreMetric selects what Score reports.
type ScoreMetric string

const (
	// Deviance is -2(L1 - LS).
	Deviance ScoreMetric = "deviance"
	// PseudoR2 is McFadden's pseudo-R² against the null model.
	PseudoR2 ScoreMetric = "pseudo_R2"
)

func (m ScoreMetric) validate() error {
	switch m {
	case Deviance, PseudoR2:
		return nil
	default:
		return errors.NewValidationError("score_metric",
			"score_metric has to be one of deviance or pseudo_R2", string(m))
	}
}

// ParseScoreMetric accepts "deviance" and "pseudo_R2" (case-insensitive).
func ParseScoreMetric(name string) (ScoreMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deviance":
		return Deviance, nil
	case "pseudo_r2":
		return PseudoR2, nil
	default:
		return "", ScoreMetric(name).validate()
	}
}

// Default hyperparameters.
const (
	DefaultAlpha        = 0.5
	DefaultLearningRate = 0.2
	DefaultMaxIter      = 1000
	DefaultTol          = 1e-3
	DefaultEta          = 2.0
)

// Option configures a GLM.
type Option func(*GLM)

// WithDistr sets the response distribution.
func WithDistr(d Distribution) Option {
	return func(g *GLM) {
		g.distr = d
	}
}

// WithAlpha sets the L1 weight of the elastic net, in [0, 1].
func WithAlpha(alpha float64) Option {
	return func(g *GLM) {
		g.alpha = alpha
	}
}

// WithTau sets the Tikhonov matrix of the L2 term. nil or an empty matrix
// means identity.
func WithTau(tau mat.Matrix) Option {
	return func(g *GLM) {
		g.tau = tikhonovMatrix(tau)
	}
}

// WithGroup assigns a group id to every feature. Id 0 leaves a feature
// under plain L1; features sharing a nonzero id are penalized together.
func WithGroup(group []int) Option {
	return func(g *GLM) {
		g.group = append([]int(nil), group...)
		if group == nil {
			g.group = nil
		}
	}
}

// WithRegLambda sets the regularization path, fitted in the given order.
func WithRegLambda(lambdas ...float64) Option {
	return func(g *GLM) {
		g.regLambda = append([]float64(nil), lambdas...)
		if len(lambdas) == 0 {
			g.regLambda = nil
		}
	}
}

// WithSolver selects batch-gradient or cdfast.
func WithSolver(s Solver) Option {
	return func(g *GLM) {
		g.solver = s
	}
}

// WithLearningRate sets the batch-gradient step size.
func WithLearningRate(lr float64) Option {
	return func(g *GLM) {
		g.learningRate = lr
	}
}

// WithMaxIter sets the iteration cap per lambda.
func WithMaxIter(n int) Option {
	return func(g *GLM) {
		g.maxIter = n
	}
}

// WithTol sets the relative loss change that ends a lambda's optimization.
func WithTol(tol float64) Option {
	return func(g *GLM) {
		g.tol = tol
	}
}

// WithEta sets the threshold above which the poisson mean is linear in z.
func WithEta(eta float64) Option {
	return func(g *GLM) {
		g.eta = eta
	}
}

// WithScoreMetric selects deviance or pseudo-R² for Score.
func WithScoreMetric(m ScoreMetric) Option {
	return func(g *GLM) {
		g.scoreMetric = m
	}
}

// WithRandomState seeds coefficient initialization and Simulate.
func WithRandomState(seed int64) Option {
	return func(g *GLM) {
		g.randomState = seed
	}
}

// WithVerbose logs path progress at Info instead of Debug.
func WithVerbose(v bool) Option {
	return func(g *GLM) {
		g.verbose = v
	}
}
