package glm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// GetParams returns the hyperparameters keyed by their configuration names.
func (g *GLM) GetParams() map[string]interface{} {
	var tau mat.Matrix
	if g.tau != nil {
		tau = mat.DenseCopyOf(g.tau)
	}
	return map[string]interface{}{
		"distr":         g.distr.String(),
		"alpha":         g.alpha,
		"Tau":           tau,
		"group":         append([]int(nil), g.group...),
		"reg_lambda":    append([]float64(nil), g.regLambda...),
		"solver":        g.solver.String(),
		"learning_rate": g.learningRate,
		"max_iter":      g.maxIter,
		"tol":           g.tol,
		"eta":           g.eta,
		"score_metric":  string(g.scoreMetric),
		"random_state":  g.randomState,
		"verbose":       g.verbose,
	}
}

// SetParams sets hyperparameters from a map using the names of GetParams.
// Values are applied only when every entry is valid.
func (g *GLM) SetParams(params map[string]interface{}) error {
	var opts []Option
	for key, value := range params {
		opt, err := paramOption(key, value)
		if err != nil {
			return err
		}
		opts = append(opts, opt)
	}
	for _, opt := range opts {
		opt(g)
	}
	return nil
}

func paramOption(key string, value interface{}) (Option, error) {
	switch key {
	case "distr":
		switch v := value.(type) {
		case Distribution:
			return WithDistr(v), nil
		case string:
			d, err := ParseDistribution(v)
			if err != nil {
				return nil, err
			}
			return WithDistr(d), nil
		}
	case "solver":
		switch v := value.(type) {
		case Solver:
			return WithSolver(v), nil
		case string:
			s, err := ParseSolver(v)
			if err != nil {
				return nil, err
			}
			return WithSolver(s), nil
		}
	case "score_metric":
		switch v := value.(type) {
		case ScoreMetric:
			return WithScoreMetric(v), nil
		case string:
			m, err := ParseScoreMetric(v)
			if err != nil {
				return nil, err
			}
			return WithScoreMetric(m), nil
		}
	case "alpha", "learning_rate", "tol", "eta":
		f, ok := toFloat(value)
		if !ok {
			break
		}
		switch key {
		case "alpha":
			return WithAlpha(f), nil
		case "learning_rate":
			return WithLearningRate(f), nil
		case "tol":
			return WithTol(f), nil
		default:
			return WithEta(f), nil
		}
	case "max_iter", "random_state":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			break
		}
		if key == "max_iter" {
			return WithMaxIter(int(f)), nil
		}
		return WithRandomState(int64(f)), nil
	case "verbose":
		if v, ok := value.(bool); ok {
			return WithVerbose(v), nil
		}
	case "Tau":
		if value == nil {
			return WithTau(nil), nil
		}
		if m, ok := value.(mat.Matrix); ok {
			return WithTau(m), nil
		}
	case "group":
		group, err := toGroup(value)
		if err != nil {
			return nil, err
		}
		return WithGroup(group), nil
	case "reg_lambda":
		switch v := value.(type) {
		case nil:
			return WithRegLambda(), nil
		case float64:
			return WithRegLambda(v), nil
		case []float64:
			return WithRegLambda(v...), nil
		}
	default:
		return nil, errors.NewValidationError(key, "unknown parameter", value)
	}
	return nil, errors.NewValidationError(key, fmt.Sprintf("unsupported value type %T", value), value)
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	default:
		return 0, false
	}
}

// toGroup accepts []int or []float64 with integral entries.
func toGroup(v interface{}) ([]int, error) {
	switch g := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return g, nil
	case []float64:
		out := make([]int, len(g))
		for i, x := range g {
			if x != math.Trunc(x) {
				return nil, errors.NewValidationError("group",
					"all entries of group should be integers", x)
			}
			out[i] = int(x)
		}
		return out, nil
	default:
		return nil, errors.NewValidationError("group",
			fmt.Sprintf("unsupported value type %T", v), v)
	}
}

// String summarizes the configuration.
func (g *GLM) String() string {
	var b strings.Builder
	b.WriteString("<\n")
	fmt.Fprintf(&b, "Distribution | %s\n", g.distr)
	fmt.Fprintf(&b, "alpha | %0.2f\n", g.alpha)
	fmt.Fprintf(&b, "max_iter | %d\n", g.maxIter)
	switch len(g.regLambda) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "lambda: %0.2f\n", g.regLambda[0])
	default:
		fmt.Fprintf(&b, "lambda: %0.2f to %0.2f\n", g.regLambda[0], g.regLambda[len(g.regLambda)-1])
	}
	b.WriteString(">")
	return b.String()
}

// Copy returns a deep copy of the model, fitted state included.
func (g *GLM) Copy() *GLM {
	c := *g
	c.state = g.state.Clone()
	if g.tau != nil {
		c.tau = mat.DenseCopyOf(g.tau)
	}
	c.group = append([]int(nil), g.group...)
	if g.group == nil {
		c.group = nil
	}
	c.regLambda = append([]float64(nil), g.regLambda...)
	if g.regLambda == nil {
		c.regLambda = nil
	}
	c.ynull = append([]float64(nil), g.ynull...)
	c.classes = append([]float64(nil), g.classes...)
	if g.classes == nil {
		c.classes = nil
	}
	if g.fit != nil {
		c.fit = make([]FitRecord, len(g.fit))
		for i, r := range g.fit {
			c.fit[i] = r.clone()
		}
	}
	return &c
}

// At returns a copy of the model reduced to the i-th lambda. Negative i
// counts from the end of the path.
func (g *GLM) At(i int) (*GLM, error) {
	if err := g.state.RequireFitted("GLM", "At"); err != nil {
		return nil, err
	}
	n := len(g.fit)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, errors.NewValidationError("index", "invalid index for GLM object", i)
	}
	return g.Slice(i, i+1)
}

// Slice returns a copy of the model reduced to lambdas [start, end).
func (g *GLM) Slice(start, end int) (*GLM, error) {
	if err := g.state.RequireFitted("GLM", "Slice"); err != nil {
		return nil, err
	}
	if start < 0 || end > len(g.fit) || start >= end {
		return nil, errors.NewValidationError("slice",
			"invalid slice for GLM object", []int{start, end})
	}
	c := g.Copy()
	c.fit = c.fit[start:end:end]
	c.regLambda = make([]float64, len(c.fit))
	for i, r := range c.fit {
		c.regLambda[i] = r.Lambda
	}
	return c, nil
}

// Lambdas returns the regularization path, or nil before the default is
// filled in by Fit.
func (g *GLM) Lambdas() []float64 {
	return append([]float64(nil), g.regLambda...)
}

// FitRecords returns copies of the per-lambda coefficients.
func (g *GLM) FitRecords() []FitRecord {
	out := make([]FitRecord, len(g.fit))
	for i, r := range g.fit {
		out[i] = r.clone()
	}
	return out
}

// YNull returns the mean of the training response (per class for multinomial).
func (g *GLM) YNull() []float64 {
	return append([]float64(nil), g.ynull...)
}

// Classes returns the class labels seen by a multinomial fit.
func (g *GLM) Classes() []float64 {
	return append([]float64(nil), g.classes...)
}

// Distr returns the configured distribution.
func (g *GLM) Distr() Distribution {
	return g.distr
}

// IsFitted reports whether Fit completed.
func (g *GLM) IsFitted() bool {
	return g.state.IsFitted()
}
