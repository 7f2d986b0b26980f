// Package goglmnet fits elastic-net regularized generalized linear models in
// Go, following the semantics of the Python pyglmnet package.
//
// A model is fitted over a whole regularization path: a decreasing sequence
// of lambdas, each warm started from the previous solution, so one Fit gives
// a family of models from heavily penalized to nearly unpenalized.
//
// # Features
//
//   - Distributions: gaussian, binomial, poisson (linearized above eta),
//     softplus and multinomial
//   - Penalties: elastic net, Tikhonov (Tau) weighted L2, group lasso
//   - Solvers: batch proximal gradient and cdfast, a cyclic coordinate
//     Newton method with an active set
//   - Scoring by deviance or McFadden pseudo-R²
//   - gob persistence, JSON weight export and path plots
//
// # Installation
//
//	go get github.com/YuminosukeSato/goglmnet
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/goglmnet/glm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
//	    y := mat.NewVecDense(6, []float64{1, 1, 3, 4, 8, 12})
//
//	    model := glm.NewGLM(
//	        glm.WithDistr(glm.Poisson),
//	        glm.WithSolver(glm.CDFast),
//	        glm.WithRegLambda(0.1, 0.01),
//	    )
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    yhat, err := model.Predict(X) // 2 x 6, one row per lambda
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(yhat))
//	}
//
// # Packages
//
//   - glm: the GLM estimator, distributions, penalties and solvers
//   - metrics: log-likelihoods, deviance and pseudo-R²
//   - plot: coefficient paths against log(lambda)
//   - preprocessing: feature standardization before fitting
//   - core/model: estimator interfaces, fitted state, persistence
//   - core/parallel: chunked parallel helpers for row-wise work
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging
//   - cmd/glmnet: command line fit / predict / score on .npy files
//
// # Logging
//
// Library code logs through pkg/log. Path progress is logged at Debug, or
// at Info with glm.WithVerbose(true). Command-line programs usually call
// log.SetupLogger("info") once at start-up.
package goglmnet
