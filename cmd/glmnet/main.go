// Command glmnet fits, applies and scores elastic-net regularized GLMs on
// data stored as NumPy .npy files.
//
//	glmnet fit --x X.npy --y y.npy --distr poisson --out model.gob
//	glmnet predict --model model.gob --x X.npy --out yhat.npy
//	glmnet score --model model.gob --x X.npy --y y.npy --metric pseudo_R2
//
// Every flag can also be set in a YAML/JSON/TOML file given with --config or
// through a GLMNET_ environment variable (GLMNET_MAX_ITER for --max-iter).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
