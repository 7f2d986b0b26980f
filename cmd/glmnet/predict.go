package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/glm"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

func newPredictCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict with a saved model",
		Long: "Writes one row of predictions per lambda, or a single row when --index\n" +
			"selects one point of the path. With --proba a multinomial model writes the\n" +
			"n_samples x n_classes probabilities of the selected lambda (default the last).",
		RunE: runGuarded("predict", v, runPredict),
	}

	f := cmd.Flags()
	f.String("model", "model.gob", "model saved by fit")
	f.String("x", "", "design matrix (.npy)")
	f.String("out", "predictions.npy", "output .npy")
	f.Int("index", 0, "path index to use; negative counts from the end")
	f.Bool("proba", false, "class probabilities (multinomial only)")
	return cmd
}

func loadModel(fname string) (*glm.GLM, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fname)
	}
	defer f.Close()
	return glm.Load(f)
}

// selectModel narrows g to one lambda when --index was given.
func selectModel(v *viper.Viper, g *glm.GLM) (*glm.GLM, error) {
	if v.IsSet("index") {
		return g.At(v.GetInt("index"))
	}
	return g, nil
}

func runPredict(cmd *cobra.Command, v *viper.Viper) error {
	g, err := loadModel(v.GetString("model"))
	if err != nil {
		return err
	}
	X, err := readRequired(v, "x")
	if err != nil {
		return err
	}

	var out mat.Matrix
	if v.GetBool("proba") {
		index := -1
		if v.IsSet("index") {
			index = v.GetInt("index")
		}
		sel, err := g.At(index)
		if err != nil {
			return err
		}
		probs, err := sel.PredictProba(X)
		if err != nil {
			return err
		}
		out = probs[0]
	} else {
		sel, err := selectModel(v, g)
		if err != nil {
			return err
		}
		yhat, err := sel.Predict(X)
		if err != nil {
			return err
		}
		if vec, ok := yhat.(*mat.VecDense); ok {
			out = vec.T()
		} else {
			out = yhat
		}
	}

	fname := v.GetString("out")
	if err := writeNpy(fname, out); err != nil {
		return err
	}
	r, c := out.Dims()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d predictions to %s\n", r, c, fname)
	return nil
}
