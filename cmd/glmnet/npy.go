package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// readNpy loads a 1-D or 2-D float64 array. A 1-D array becomes a column.
func readNpy(fname string) (*mat.Dense, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fname)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read npy header of %s", fname)
	}

	shape := r.Header.Descr.Shape
	var rows, cols int
	switch len(shape) {
	case 1:
		rows, cols = shape[0], 1
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return nil, errors.NewValidationError(fname, "expected a 1-D or 2-D array", shape)
	}
	if rows == 0 || cols == 0 {
		return nil, errors.NewValidationError(fname, "array is empty", shape)
	}

	var data []float64
	if err := r.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read %s (arrays must be float64)", fname)
	}
	if r.Header.Descr.Fortran {
		var m mat.Dense
		m.CloneFrom(mat.NewDense(cols, rows, data).T())
		return &m, nil
	}
	return mat.NewDense(rows, cols, data), nil
}

// writeNpy stores m as a 2-D float64 array.
func writeNpy(fname string, m mat.Matrix) error {
	f, err := os.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "create %s", fname)
	}
	if err := npyio.Write(f, mat.DenseCopyOf(m)); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", fname)
	}
	return errors.Wrapf(f.Close(), "close %s", fname)
}

// parseFloats reads a comma or space separated list such as "0.5,0.1".
func parseFloats(name, s string) ([]float64, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.NewValidationError(name, "not a number", f)
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(name, s string) ([]int, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.NewValidationError(name, "not an integer", f)
		}
		out[i] = v
	}
	return out, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '[' || r == ']'
	})
}
