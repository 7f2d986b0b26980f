// Package glm fits elastic-net regularized generalized linear models along a
// path of regularization strengths.
//
// The objective at each lambda is
//
//	-logL(beta0, beta) + lambda * (0.5*(1-alpha)*||Tau beta||² + alpha*L1(beta))
//
// where L1 is the plain lasso norm or, when feature groups are given, a sum
// of per-group L2 norms. Five response distributions are supported
// (gaussian, binomial, poisson, softplus, multinomial) and two solvers:
// batch proximal gradient descent and "cdfast", cyclic single-coordinate
// Newton updates over a shrinking active set.
//
// Lambdas are fitted in order, each warm started from the previous solution:
//
//	g := glm.NewGLM(
//	    glm.WithDistr(glm.Poisson),
//	    glm.WithSolver(glm.CDFast),
//	    glm.WithRegLambda(0.5, 0.1, 0.02),
//	)
//	if err := g.Fit(X, y); err != nil {
//	    return err
//	}
//	yhat, _ := g.Predict(Xtest)    // 3 x n_test
//	best, _ := g.At(-1)            // model at lambda = 0.02
//	scores, _ := best.Score(Xtest, ytest)
package glm
