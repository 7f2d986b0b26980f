package glm

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/goglmnet/core/model"
	"github.com/YuminosukeSato/goglmnet/metrics"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
	"github.com/YuminosukeSato/goglmnet/pkg/log"
)

// GLM is an elastic-net regularized generalized linear model fitted over a
// path of regularization strengths.
type GLM struct {
	state *model.StateManager

	// hyperparameters
	distr        Distribution
	alpha        float64
	tau          *mat.Dense
	group        []int
	regLambda    []float64
	solver       Solver
	learningRate float64
	maxIter      int
	tol          float64
	eta          float64
	scoreMetric  ScoreMetric
	randomState  int64
	verbose      bool

	// fitted
	fit     []FitRecord
	ynull   []float64
	classes []float64
}

var _ model.PathEstimator = (*GLM)(nil)

// NewGLM creates a GLM with the default poisson configuration.
func NewGLM(opts ...Option) *GLM {
	g := &GLM{
		state:        model.NewStateManager(),
		distr:        Poisson,
		alpha:        DefaultAlpha,
		solver:       BatchGradient,
		learningRate: DefaultLearningRate,
		maxIter:      DefaultMaxIter,
		tol:          DefaultTol,
		eta:          DefaultEta,
		scoreMetric:  Deviance,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GLM) family() family {
	return family{distr: g.distr, eta: g.eta}
}

func (g *GLM) logger() log.Logger {
	return log.GetLoggerWithName("glm").With(
		log.ModelNameKey, "GLM",
		log.DistributionKey, g.distr.String(),
		log.SolverKey, g.solver.String(),
	)
}

// validateParams checks the hyperparameters that do not depend on the data.
func (g *GLM) validateParams() error {
	if !g.distr.valid() {
		return errors.Wrapf(errors.ErrUnknownDistribution, "%s", g.distr)
	}
	if g.solver != BatchGradient && g.solver != CDFast {
		return errors.Wrapf(errors.ErrUnknownSolver, "%s", g.solver)
	}
	if math.IsNaN(g.alpha) || g.alpha < 0 || g.alpha > 1 {
		return errors.NewValidationError("alpha", "alpha must be in [0, 1]", g.alpha)
	}
	if g.maxIter < 1 {
		return errors.NewValidationError("max_iter", "max_iter must be at least 1", g.maxIter)
	}
	if math.IsNaN(g.tol) || g.tol < 0 {
		return errors.NewValidationError("tol", "tol must be non-negative", g.tol)
	}
	if g.solver == BatchGradient && !(g.learningRate > 0) {
		return errors.NewValidationError("learning_rate", "learning_rate must be positive", g.learningRate)
	}
	if math.IsNaN(g.eta) || math.IsInf(g.eta, 0) {
		return errors.NewValidationError("eta", "eta must be finite", g.eta)
	}
	for _, l := range g.regLambda {
		if math.IsNaN(l) || math.IsInf(l, 0) || l < 0 {
			return errors.NewValidationError("reg_lambda",
				"regularization strengths must be finite and non-negative", l)
		}
	}
	return nil
}

// Fit runs the regularization path on X (n_samples x n_features) and y.
// y is n_samples x 1, except for multinomial where it may also be one-hot
// n_samples x n_classes. A previous fit is discarded, including on error.
func (g *GLM) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GLM.Fit")

	g.state.Reset()
	g.fit, g.ynull, g.classes = nil, nil, nil

	if err := g.validateParams(); err != nil {
		return err
	}
	xd, err := checkDesign("GLM.Fit", X, 0)
	if err != nil {
		return err
	}
	n, p := xd.Dims()

	yd, classes, err := encodeResponse("GLM.Fit", g.distr, y, n, nil)
	if err != nil {
		return err
	}
	_, k := yd.Dims()

	pen, err := newPenalty(g.alpha, g.tau, g.group, p)
	if err != nil {
		return err
	}

	if g.regLambda == nil {
		g.regLambda = DefaultLambdas()
	}

	logger := g.logger()
	logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ClassesKey, k,
		log.AlphaKey, g.alpha,
		log.PathLengthKey, len(g.regLambda),
		log.RandomSeedKey, g.randomState,
	)
	start := time.Now()

	records, err := fitPath(pathConfig{
		family:       g.family(),
		penalty:      pen,
		solver:       g.solver,
		lambdas:      g.regLambda,
		learningRate: g.learningRate,
		maxIter:      g.maxIter,
		tol:          g.tol,
		randomState:  g.randomState,
		verbose:      g.verbose,
	}, xd, yd, logger)
	if err != nil {
		return errors.Wrap(err, "GLM.Fit")
	}

	g.fit = records
	g.ynull = columnMeans(yd)
	g.classes = classes
	g.state.SetDimensions(p, n, k)
	g.state.SetFitted()

	logger.Info("Training completed", log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// means returns qu(beta0 + X beta) for every fit record.
func (g *GLM) means(X *mat.Dense) []*mat.Dense {
	f := g.family()
	out := make([]*mat.Dense, len(g.fit))
	for i, r := range g.fit {
		out[i] = f.meanMatrix(linearPredictor(X, r.Beta0, r.Beta))
	}
	return out
}

func (g *GLM) checkFittedDesign(op, method string, X mat.Matrix) (*mat.Dense, error) {
	if err := g.state.RequireFitted("GLM", method); err != nil {
		return nil, err
	}
	nFeatures, _, _ := g.state.GetDimensions()
	return checkDesign(op, X, nFeatures)
}

// Predict returns the expected response per fit record, or for multinomial
// the index of the most probable class. The result is a vector of length
// n_samples when one lambda was fitted and an n_lambdas x n_samples matrix
// otherwise.
func (g *GLM) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "GLM.Predict")

	xd, err := g.checkFittedDesign("GLM.Predict", "Predict", X)
	if err != nil {
		return nil, err
	}
	n, _ := xd.Dims()

	means := g.means(xd)
	out := mat.NewDense(len(means), n, nil)
	for l, mu := range means {
		row := out.RawRowView(l)
		for i := 0; i < n; i++ {
			if g.distr == Multinomial {
				row[i] = float64(argmax(mu.RawRowView(i)))
			} else {
				row[i] = mu.At(i, 0)
			}
		}
	}

	if len(means) == 1 {
		return mat.NewVecDense(n, out.RawRowView(0)), nil
	}
	return out, nil
}

// PredictProba returns the n_samples x n_classes class probabilities for
// every fit record. Only the multinomial distribution supports it.
func (g *GLM) PredictProba(X mat.Matrix) (_ []*mat.Dense, err error) {
	defer errors.Recover(&err, "GLM.PredictProba")

	if g.distr != Multinomial {
		return nil, errors.NewValueError("GLM.PredictProba",
			"this is only applicable for the multinomial distribution")
	}
	xd, err := g.checkFittedDesign("GLM.PredictProba", "PredictProba", X)
	if err != nil {
		return nil, err
	}
	return g.means(xd), nil
}

// FitPredict fits on X, y and predicts on the same X.
func (g *GLM) FitPredict(X, y mat.Matrix) (mat.Matrix, error) {
	if err := g.Fit(X, y); err != nil {
		return nil, err
	}
	return g.Predict(X)
}

// Score returns the deviance or pseudo-R² of every fit record on X, y.
func (g *GLM) Score(X, y mat.Matrix) (_ []float64, err error) {
	defer errors.Recover(&err, "GLM.Score")

	if err := g.scoreMetric.validate(); err != nil {
		return nil, err
	}
	xd, err := g.checkFittedDesign("GLM.Score", "Score", X)
	if err != nil {
		return nil, err
	}
	n, _ := xd.Dims()
	yd, _, err := encodeResponse("GLM.Score", g.distr, y, n, g.classes)
	if err != nil {
		return nil, err
	}

	var probs []*mat.Dense
	if g.distr == Multinomial {
		probs, err = g.PredictProba(xd)
		if err != nil {
			return nil, err
		}
	} else {
		probs = g.means(xd)
	}

	ll := func(yhat mat.Matrix) (float64, error) {
		return g.logLikelihood(yd, yhat)
	}

	var ls float64
	if g.distr.isCount() {
		if ls, err = ll(yd); err != nil {
			return nil, err
		}
	}

	var l0 float64
	if g.scoreMetric == PseudoR2 {
		null := mat.NewDense(n, len(g.ynull), nil)
		for i := 0; i < n; i++ {
			copy(null.RawRowView(i), g.ynull)
		}
		if l0, err = ll(null); err != nil {
			return nil, err
		}
	}

	scores := make([]float64, len(probs))
	for i, yhat := range probs {
		l1, err := ll(yhat)
		if err != nil {
			return nil, err
		}
		switch g.scoreMetric {
		case Deviance:
			scores[i] = metrics.Deviance(l1, ls)
		case PseudoR2:
			scores[i] = metrics.PseudoR2(l1, l0, ls, g.distr.isCount())
		}
	}

	g.logger().Debug("Scored",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseScoring,
		log.SamplesKey, n,
		log.ScoreKey, scores,
	)
	return scores, nil
}

// logLikelihood is the summed log-likelihood of y under predicted means yhat.
func (g *GLM) logLikelihood(y *mat.Dense, yhat mat.Matrix) (float64, error) {
	switch g.distr {
	case Gaussian:
		return metrics.GaussianLogLikelihood(y, yhat)
	case Binomial:
		return metrics.BinomialLogLikelihood(y, yhat)
	case Poisson, Softplus:
		return metrics.PoissonLogLikelihood(y, yhat)
	case Multinomial:
		return metrics.MultinomialLogLikelihood(y, yhat)
	default:
		return 0, errors.Wrapf(errors.ErrUnknownDistribution, "%s", g.distr)
	}
}

// Simulate draws one response per row of X from the model with the given
// coefficients: poisson counts for poisson and softplus, unit-variance normal
// for gaussian, Bernoulli for binomial, and a class index for multinomial.
// beta is n_features x K with K = len(beta0). Draws are seeded by the
// random state, so repeated calls return the same sample.
func (g *GLM) Simulate(beta0 []float64, beta, X mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "GLM.Simulate")

	if !g.distr.valid() {
		return nil, errors.Wrapf(errors.ErrUnknownDistribution, "%s", g.distr)
	}
	if len(beta0) == 0 {
		return nil, errors.NewValidationError("beta0", "at least one intercept is required", 0)
	}
	xd, err := checkDesign("GLM.Simulate", X, 0)
	if err != nil {
		return nil, err
	}
	n, p := xd.Dims()
	br, bc := beta.Dims()
	if br != p {
		return nil, errors.NewDimensionError("GLM.Simulate", p, br, 0)
	}
	if bc != len(beta0) {
		return nil, errors.NewDimensionError("GLM.Simulate", len(beta0), bc, 1)
	}
	if g.distr != Multinomial && bc != 1 {
		return nil, errors.NewDimensionError("GLM.Simulate", 1, bc, 1)
	}

	mu := g.family().meanMatrix(linearPredictor(xd, beta0, beta))
	src := newSource(g.randomState)
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		var v float64
		switch g.distr {
		case Poisson, Softplus:
			v = distuv.Poisson{Lambda: mu.At(i, 0), Src: src}.Rand()
		case Gaussian:
			v = distuv.Normal{Mu: mu.At(i, 0), Sigma: 1, Src: src}.Rand()
		case Binomial:
			v = distuv.Bernoulli{P: mu.At(i, 0), Src: src}.Rand()
		case Multinomial:
			v = distuv.NewCategorical(mu.RawRowView(i), src).Rand()
		}
		out.SetVec(i, v)
	}

	g.logger().Debug("Simulated responses", log.OperationKey, log.OperationSimulate, log.SamplesKey, n)
	return out, nil
}
