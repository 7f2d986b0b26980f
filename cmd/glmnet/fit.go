package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/glm"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
	"github.com/YuminosukeSato/goglmnet/plot"
)

func newFitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a regularization path and save the model",
		RunE: runGuarded("fit", v, runFit),
	}

	f := cmd.Flags()
	f.String("x", "", "design matrix (n_samples x n_features .npy)")
	f.String("y", "", "response (.npy); labels or one-hot rows for multinomial")
	f.String("distr", "poisson", "gaussian, binomial, poisson, softplus or multinomial")
	f.Float64("alpha", glm.DefaultAlpha, "L1 weight of the elastic net")
	f.String("lambda", "", "regularization path, e.g. 0.5,0.1,0.01 (default: 10 values from 0.5 to 0.01)")
	f.String("group", "", "group id per feature, e.g. 1,1,2,2,0")
	f.String("tau", "", "Tikhonov matrix (n_features x n_features .npy)")
	f.String("solver", "batch-gradient", "batch-gradient or cdfast")
	f.Float64("learning-rate", glm.DefaultLearningRate, "batch-gradient step size")
	f.Int("max-iter", glm.DefaultMaxIter, "iterations per lambda")
	f.Float64("tol", glm.DefaultTol, "relative loss change that ends a lambda")
	f.Float64("eta", glm.DefaultEta, "poisson linearization threshold")
	f.Int64("random-state", 0, "seed for coefficient initialization")
	f.Bool("verbose", false, "log path progress at info")
	f.String("out", "model.gob", "where to save the fitted model")
	f.String("coef", "", "also write the coefficients (.npy, one row per lambda)")
	f.String("weights", "", "also write the coefficients as JSON")
	f.String("plot", "", "also plot the coefficient paths (.png, .svg, .pdf)")
	return cmd
}

func runFit(cmd *cobra.Command, v *viper.Viper) error {
	g, err := modelFromConfig(v)
	if err != nil {
		return err
	}

	X, err := readRequired(v, "x")
	if err != nil {
		return err
	}
	y, err := readRequired(v, "y")
	if err != nil {
		return err
	}
	if err := g.Fit(X, y); err != nil {
		return err
	}

	out := v.GetString("out")
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", out)
	}

	if fname := v.GetString("coef"); fname != "" {
		if err := writeNpy(fname, coefficientTable(g.FitRecords())); err != nil {
			return err
		}
	}
	if fname := v.GetString("weights"); fname != "" {
		if err := writeWeights(g, fname); err != nil {
			return err
		}
	}
	if fname := v.GetString("plot"); fname != "" {
		if err := plot.SavePath(g, fname); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "fitted %d lambdas, saved to %s\n", len(g.Lambdas()), out)
	return nil
}

// modelFromConfig builds an unfitted GLM from the bound flags.
func modelFromConfig(v *viper.Viper) (*glm.GLM, error) {
	distr, err := glm.ParseDistribution(v.GetString("distr"))
	if err != nil {
		return nil, err
	}
	solver, err := glm.ParseSolver(v.GetString("solver"))
	if err != nil {
		return nil, err
	}
	lambdas, err := parseFloats("lambda", v.GetString("lambda"))
	if err != nil {
		return nil, err
	}
	group, err := parseInts("group", v.GetString("group"))
	if err != nil {
		return nil, err
	}

	opts := []glm.Option{
		glm.WithDistr(distr),
		glm.WithSolver(solver),
		glm.WithAlpha(v.GetFloat64("alpha")),
		glm.WithRegLambda(lambdas...),
		glm.WithGroup(group),
		glm.WithLearningRate(v.GetFloat64("learning-rate")),
		glm.WithMaxIter(v.GetInt("max-iter")),
		glm.WithTol(v.GetFloat64("tol")),
		glm.WithEta(v.GetFloat64("eta")),
		glm.WithRandomState(v.GetInt64("random-state")),
		glm.WithVerbose(v.GetBool("verbose")),
	}
	if fname := v.GetString("tau"); fname != "" {
		tau, err := readNpy(fname)
		if err != nil {
			return nil, err
		}
		opts = append(opts, glm.WithTau(tau))
	}
	return glm.NewGLM(opts...), nil
}

func readRequired(v *viper.Viper, key string) (*mat.Dense, error) {
	fname := v.GetString(key)
	if fname == "" {
		return nil, errors.NewValidationError(key, "flag --"+key+" is required", fname)
	}
	return readNpy(fname)
}

// coefficientTable lays out the path as one row per lambda:
// intercepts followed by the row-major n_features x n_classes coefficients.
func coefficientTable(records []glm.FitRecord) *mat.Dense {
	p, k := records[0].Beta.Dims()
	out := mat.NewDense(len(records), k+p*k, nil)
	for i, r := range records {
		row := out.RawRowView(i)
		copy(row, r.Beta0)
		copy(row[k:], r.Beta.RawMatrix().Data)
	}
	return out
}

func writeWeights(g *glm.GLM, fname string) error {
	mw, err := g.ExportWeights()
	if err != nil {
		return err
	}
	data, err := mw.ToJSON()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(fname, data, 0o644), "write %s", fname)
}
