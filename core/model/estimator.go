package model

import "gonum.org/v1/gonum/mat"

// Fitter is implemented by models that learn from a design matrix and a response.
type Fitter interface {
	// Fit learns the model from X (n_samples x n_features) and y.
	Fit(X, y mat.Matrix) error
}

// Predictor is implemented by models that predict from a design matrix.
type Predictor interface {
	// Predict returns predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// PathScorer scores a model fitted along a regularization path,
// returning one score per path point.
type PathScorer interface {
	Score(X, y mat.Matrix) ([]float64, error)
}

// PathEstimator is a model fitted over a sequence of regularization strengths.
type PathEstimator interface {
	Fitter
	Predictor
	PathScorer

	// Lambdas returns the regularization path in fitting order.
	Lambdas() []float64
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}
