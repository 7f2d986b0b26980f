package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScoreCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a saved model on X, y for every lambda",
		RunE: runGuarded("score", v, runScore),
	}

	f := cmd.Flags()
	f.String("model", "model.gob", "model saved by fit")
	f.String("x", "", "design matrix (.npy)")
	f.String("y", "", "response (.npy)")
	f.String("metric", "deviance", "deviance or pseudo_R2")
	return cmd
}

func runScore(cmd *cobra.Command, v *viper.Viper) error {
	g, err := loadModel(v.GetString("model"))
	if err != nil {
		return err
	}
	if err := g.SetParams(map[string]interface{}{"score_metric": v.GetString("metric")}); err != nil {
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

	scores, err := g.Score(X, y)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "lambda\t%s\n", v.GetString("metric"))
	for i, l := range g.Lambdas() {
		fmt.Fprintf(tw, "%g\t%.6f\n", l, scores[i])
	}
	return tw.Flush()
}
