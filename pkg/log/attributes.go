// Standard attribute keys for glmnet log records.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples",
// "path.lambda") so that records from fitting, prediction and scoring can be
// filtered uniformly.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "GLM".
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "simulate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of response columns (classes for multinomial).
	ClassesKey = "data.classes"
)

// GLM configuration and regularization path
const (
	// DistributionKey records the response distribution ("poisson", "binomial", ...).
	DistributionKey = "glm.distr"

	// SolverKey records the optimizer ("batch-gradient" or "cdfast").
	SolverKey = "glm.solver"

	// AlphaKey records the L1/L2 mixing weight.
	AlphaKey = "hyperparams.alpha"

	// LambdaKey records the regularization strength of the current path point.
	LambdaKey = "path.lambda"

	// LambdaIndexKey records the position of the current lambda in the path.
	LambdaIndexKey = "path.index"

	// PathLengthKey records the number of lambdas in the path.
	PathLengthKey = "path.length"

	// ActiveSetKey records the number of coordinates still in the active set.
	ActiveSetKey = "cdfast.active"

	// LearningRateKey records the learning rate for the batch solver.
	LearningRateKey = "hyperparams.learning_rate"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the penalized loss value.
	LossKey = "metrics.loss"

	// RelativeChangeKey records |dL/L| at the convergence check.
	RelativeChangeKey = "metrics.rel_change"

	// ScoreKey records a deviance or pseudo-R² value.
	ScoreKey = "metrics.score"

	// IterationKey records the current iteration number.
	IterationKey = "training.iteration"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute value constants.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationSimulate = "simulate"

	PhaseTraining  = "training"
	PhaseInference = "inference"
	PhaseScoring   = "scoring"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
