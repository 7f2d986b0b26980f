package glm

import (
	"bytes"
	"encoding/gob"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/core/model"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// weightsVersion is written into exported weights and checked on import.
const weightsVersion = "1"

// snapshot is the gob form of a GLM.
type snapshot struct {
	Distr        int
	Alpha        float64
	Tau          *mat.Dense
	Group        []int
	RegLambda    []float64
	Solver       int
	LearningRate float64
	MaxIter      int
	Tol          float64
	Eta          float64
	ScoreMetric  string
	RandomState  int64
	Verbose      bool

	State   model.ModelState
	Fit     []FitRecord
	YNull   []float64
	Classes []float64
}

// GobEncode implements gob.GobEncoder.
func (g *GLM) GobEncode() ([]byte, error) {
	s := snapshot{
		Distr:        int(g.distr),
		Alpha:        g.alpha,
		Tau:          g.tau,
		Group:        g.group,
		RegLambda:    g.regLambda,
		Solver:       int(g.solver),
		LearningRate: g.learningRate,
		MaxIter:      g.maxIter,
		Tol:          g.tol,
		Eta:          g.eta,
		ScoreMetric:  string(g.scoreMetric),
		RandomState:  g.randomState,
		Verbose:      g.verbose,
		State:        g.state.GetState(),
		Fit:          g.fit,
		YNull:        g.ynull,
		Classes:      g.classes,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, errors.Wrap(err, "GLM.GobEncode")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (g *GLM) GobDecode(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return errors.Wrap(err, "GLM.GobDecode")
	}
	if !Distribution(s.Distr).valid() {
		return errors.Wrapf(errors.ErrUnknownDistribution, "%d", s.Distr)
	}

	*g = GLM{
		state:        model.NewStateManager(),
		distr:        Distribution(s.Distr),
		alpha:        s.Alpha,
		tau:          s.Tau,
		group:        s.Group,
		regLambda:    s.RegLambda,
		solver:       Solver(s.Solver),
		learningRate: s.LearningRate,
		maxIter:      s.MaxIter,
		tol:          s.Tol,
		eta:          s.Eta,
		scoreMetric:  ScoreMetric(s.ScoreMetric),
		randomState:  s.RandomState,
		verbose:      s.Verbose,
		fit:          s.Fit,
		ynull:        s.YNull,
		classes:      s.Classes,
	}
	g.state.SetState(s.State)
	return nil
}

// Save writes the model in gob form.
func (g *GLM) Save(w io.Writer) error {
	return model.SaveModelToWriter(g, w)
}

// Load reads a model written by Save.
func Load(r io.Reader) (*GLM, error) {
	g := NewGLM()
	if err := model.LoadModelFromReader(g, r); err != nil {
		return nil, err
	}
	return g, nil
}

// ExportWeights returns the fitted path in the portable weights schema.
func (g *GLM) ExportWeights() (*model.ModelWeights, error) {
	if err := g.state.RequireFitted("GLM", "ExportWeights"); err != nil {
		return nil, err
	}
	nFeatures, nSamples, nClasses := g.state.GetDimensions()

	params := g.GetParams()
	delete(params, "Tau")
	mw := &model.ModelWeights{
		ModelType:       "GLM",
		Version:         weightsVersion,
		NFeatures:       nFeatures,
		NClasses:        nClasses,
		Path:            make([]model.PathPoint, len(g.fit)),
		Hyperparameters: params,
		Metadata: map[string]interface{}{
			"n_samples": nSamples,
			"ynull":     g.YNull(),
		},
		IsFitted: true,
	}
	if g.classes != nil {
		mw.Metadata["classes"] = g.Classes()
	}
	for i, r := range g.fit {
		mw.Path[i] = model.PathPoint{
			Lambda:       r.Lambda,
			Intercepts:   append([]float64(nil), r.Beta0...),
			Coefficients: append([]float64(nil), r.Beta.RawMatrix().Data...),
		}
	}
	return mw, mw.Validate()
}

// ImportWeights replaces the fitted path with the one in mw. Hyperparameters
// other than the path are left as configured on g; the distribution must match.
func (g *GLM) ImportWeights(mw *model.ModelWeights) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != "GLM" {
		return errors.NewValidationError("model_type", "expected GLM weights", mw.ModelType)
	}
	if mw.Version != weightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", mw.Version)
	}
	if d, ok := mw.Hyperparameters["distr"].(string); ok && d != g.distr.String() {
		return errors.NewValidationError("distr", "weights were fitted with another distribution", d)
	}

	fit := make([]FitRecord, len(mw.Path))
	lambdas := make([]float64, len(mw.Path))
	for i, p := range mw.Path {
		fit[i] = FitRecord{
			Lambda: p.Lambda,
			Beta0:  append([]float64(nil), p.Intercepts...),
			Beta:   mat.NewDense(mw.NFeatures, mw.NClasses, append([]float64(nil), p.Coefficients...)),
		}
		lambdas[i] = p.Lambda
	}

	g.fit = fit
	g.regLambda = lambdas
	g.ynull = floatSlice(mw.Metadata["ynull"])
	g.classes = floatSlice(mw.Metadata["classes"])
	nSamples := 0
	if v, ok := toFloat(mw.Metadata["n_samples"]); ok {
		nSamples = int(v)
	}
	g.state.SetDimensions(mw.NFeatures, nSamples, mw.NClasses)
	g.state.SetFitted()
	return nil
}

// floatSlice reads a []float64 that may have passed through JSON.
func floatSlice(v interface{}) []float64 {
	switch x := v.(type) {
	case []float64:
		return append([]float64(nil), x...)
	case []interface{}:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			if f, ok := toFloat(e); ok {
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}
