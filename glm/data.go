package glm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// checkDesign validates X and returns a private dense copy.
func checkDesign(op string, X mat.Matrix, nFeatures int) (*mat.Dense, error) {
	if X == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, op+": X is nil")
	}
	n, p := X.Dims()
	if n == 0 {
		return nil, errors.NewValidationError("X", "X cannot be empty", []int{n, p})
	}
	if p == 0 {
		return nil, errors.NewValidationError("X",
			"0 feature(s) while a minimum of 1 is required", []int{n, p})
	}
	if nFeatures > 0 && p != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, p, 1)
	}
	xd := mat.DenseCopyOf(X)
	if err := errors.CheckMatrix(op, xd, n, p, 0); err != nil {
		return nil, err
	}
	return xd, nil
}

// encodeResponse converts y to the n x K matrix the likelihoods use. For
// multinomial, a single column is read as class labels and binarized
// against classes (derived from y when nil); several columns are taken as
// one-hot rows.
func encodeResponse(op string, d Distribution, y mat.Matrix, nSamples int, classes []float64) (*mat.Dense, []float64, error) {
	if y == nil {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, op+": y is nil")
	}
	r, c := y.Dims()
	if r != nSamples {
		return nil, nil, errors.NewDimensionError(op, nSamples, r, 0)
	}

	if d != Multinomial {
		if c != 1 {
			return nil, nil, errors.NewDimensionError(op, 1, c, 1)
		}
		yd := mat.DenseCopyOf(y)
		if err := errors.CheckMatrix(op, yd, r, c, 0); err != nil {
			return nil, nil, err
		}
		return yd, nil, nil
	}

	if c > 1 {
		if classes != nil && len(classes) != c {
			return nil, nil, errors.NewDimensionError(op, len(classes), c, 1)
		}
		if classes == nil {
			classes = make([]float64, c)
			for i := range classes {
				classes[i] = float64(i)
			}
		}
		return mat.DenseCopyOf(y), classes, nil
	}

	labels := mat.Col(nil, 0, y)
	if classes == nil {
		classes = uniqueSorted(labels)
		if len(classes) < 2 {
			return nil, nil, errors.NewValidationError("y",
				"multinomial response needs at least 2 classes", len(classes))
		}
	}
	onehot := mat.NewDense(r, len(classes), nil)
	for i, v := range labels {
		idx := sort.SearchFloat64s(classes, v)
		if idx == len(classes) || classes[idx] != v {
			return nil, nil, errors.NewValueError(op, "y contains a label not seen during fit")
		}
		onehot.Set(i, idx, 1)
	}
	return onehot, classes, nil
}

func uniqueSorted(v []float64) []float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	out := s[:0]
	for i, x := range s {
		if i == 0 || x != s[i-1] {
			out = append(out, x)
		}
	}
	return out
}

// columnMeans returns the mean of every column of y.
func columnMeans(y *mat.Dense) []float64 {
	_, c := y.Dims()
	means := make([]float64, c)
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j, y), nil)
	}
	return means
}

func argmax(v []float64) int {
	best, idx := math.Inf(-1), 0
	for i, x := range v {
		if x > best {
			best, idx = x, i
		}
	}
	return idx
}
