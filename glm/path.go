package glm

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
	"github.com/YuminosukeSato/goglmnet/pkg/log"
)

// FitRecord holds the coefficients reached at one lambda of the path.
type FitRecord struct {
	Lambda float64
	Beta0  []float64  // one intercept per response column
	Beta   *mat.Dense // n_features x n_classes
	// Losses is the penalized loss after every iteration. Fewer than
	// max_iter entries means the tolerance was met.
	Losses []float64
}

func (r FitRecord) clone() FitRecord {
	return FitRecord{
		Lambda: r.Lambda,
		Beta0:  append([]float64(nil), r.Beta0...),
		Beta:   mat.DenseCopyOf(r.Beta),
		Losses: append([]float64(nil), r.Losses...),
	}
}

// DefaultLambdas returns the default path: 10 values spaced evenly in log
// space from 0.5 down to 0.01.
func DefaultLambdas() []float64 {
	l := make([]float64, 10)
	floats.LogSpan(l, 0.5, 0.01)
	return l
}

// newSource returns the random source for a seed.
func newSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(seed))
}

// initialCoefficients draws beta0 and beta from N(0,1)/(n_features+1).
func initialCoefficients(nFeatures, nClasses int, seed int64) ([]float64, *mat.Dense) {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: newSource(seed)}
	scale := 1 / float64(nFeatures+1)

	beta0 := make([]float64, nClasses)
	for c := range beta0 {
		beta0[c] = scale * norm.Rand()
	}
	beta := mat.NewDense(nFeatures, nClasses, nil)
	for j := 0; j < nFeatures; j++ {
		for c := 0; c < nClasses; c++ {
			beta.Set(j, c, scale*norm.Rand())
		}
	}
	return beta0, beta
}

// pathConfig carries the settings the path driver reads.
type pathConfig struct {
	family       family
	penalty      *penalty
	solver       Solver
	lambdas      []float64
	learningRate float64
	maxIter      int
	tol          float64
	randomState  int64
	verbose      bool
}

// fitPath runs the solver to convergence at every lambda in order, warm
// starting each lambda from the previous one's coefficients.
func fitPath(cfg pathConfig, X, y *mat.Dense, logger log.Logger) ([]FitRecord, error) {
	_, p := X.Dims()
	_, k := y.Dims()

	progress := logger.Debug
	if cfg.verbose {
		progress = logger.Info
	}
	progress("Looping through the regularization path", log.PathLengthKey, len(cfg.lambdas))

	beta0, beta := initialCoefficients(p, k, cfg.randomState)
	records := make([]FitRecord, 0, len(cfg.lambdas))

	for idx, rl := range cfg.lambdas {
		start := time.Now()
		progress("Lambda", log.LambdaIndexKey, idx, log.LambdaKey, rl)

		s := newSolverState(X, beta0, beta)
		thresh := rl * cfg.penalty.alpha
		losses := make([]float64, 0, min(cfg.maxIter, 64))
		converged := false

		for t := 0; t < cfg.maxIter; t++ {
			switch cfg.solver {
			case BatchGradient:
				s.batchStep(cfg.family, cfg.penalty, X, y, rl, cfg.learningRate)
				s.proximal(cfg.penalty, thresh, nil)
				s.refreshZ(X)
			case CDFast:
				s.cdfastCycle(cfg.family, cfg.penalty, X, y, rl)
				s.proximal(cfg.penalty, thresh, X)
				active := s.pruneActive()
				if logger.Enabled(context.Background(), log.LevelDebug) {
					logger.Debug("cdfast cycle", log.IterationKey, t, log.ActiveSetKey, active)
				}
			default:
				return nil, errors.Wrapf(errors.ErrUnknownSolver, "%s", cfg.solver)
			}

			loss := s.objective(cfg.family, cfg.penalty, y, rl)
			if err := errors.CheckScalar(fmt.Sprintf("GLM.Fit lambda=%g", rl), loss, t); err != nil {
				logger.Error("Non-finite loss", err, log.LambdaKey, rl, log.IterationKey, t)
				return nil, err
			}
			losses = append(losses, loss)

			if t > 1 {
				dl := losses[t] - losses[t-1]
				rel := errors.SafeDivide(dl, loss)
				if math.Abs(rel) < cfg.tol {
					progress("Converged",
						log.LambdaKey, rl,
						log.IterationKey, t,
						log.LossKey, loss,
						log.RelativeChangeKey, rel,
						log.DurationMsKey, time.Since(start).Milliseconds(),
					)
					converged = true
					break
				}
			}
		}

		if !converged {
			errors.Warn(errors.NewConvergenceWarning("GLM", cfg.maxIter,
				fmt.Sprintf("lambda=%g, last loss %g", rl, lastOf(losses))))
		}

		records = append(records, FitRecord{
			Lambda: rl,
			Beta0:  append([]float64(nil), s.beta0...),
			Beta:   mat.DenseCopyOf(s.beta),
			Losses: losses,
		})
		beta0, beta = s.beta0, s.beta
	}

	return records, nil
}

func lastOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return v[len(v)-1]
}
