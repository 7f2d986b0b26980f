// Package plot draws the regularization path of a fitted GLM: every
// coefficient against log(lambda).
package plot

import (
	"fmt"
	"io"
	"math"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/goglmnet/glm"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
	"github.com/YuminosukeSato/goglmnet/pkg/log"
)

// PathPlotter builds a coefficient path plot.
type PathPlotter struct {
	plt *gonumplot.Plot

	width  vg.Length
	height vg.Length

	lines  []*plotter.Line
	labels []string
}

// NewPathPlotter returns a PathPlotter with a 6x4 inch canvas.
func NewPathPlotter() *PathPlotter {
	p := gonumplot.New()
	p.Title.Text = "Regularization path"
	p.X.Label.Text = "log(lambda)"
	p.Y.Label.Text = "coefficient"
	p.Add(plotter.NewGrid())

	return &PathPlotter{
		plt:    p,
		width:  6 * vg.Inch,
		height: 4 * vg.Inch,
	}
}

// Size sets the canvas size in inches.
func (pp *PathPlotter) Size(w, h float64) *PathPlotter {
	pp.width = vg.Length(w) * vg.Inch
	pp.height = vg.Length(h) * vg.Inch
	return pp
}

// Add draws one line per coefficient of the fitted path. Multinomial
// coefficients are labelled per class.
func (pp *PathPlotter) Add(records []glm.FitRecord) error {
	series, labels, err := pathSeries(records)
	if err != nil {
		return err
	}
	for i, pts := range series {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "plot: line for %s", labels[i])
		}
		line.Color = plotutil.Color(len(pp.lines))
		line.Dashes = plotutil.Dashes(len(pp.lines) / len(plotutil.DefaultColors))
		pp.plt.Add(line)
		pp.plt.Legend.Add(labels[i], line)
		pp.lines = append(pp.lines, line)
		pp.labels = append(pp.labels, labels[i])
	}
	pp.plt.Legend.Top = true
	return nil
}

// Plot returns the underlying gonum plot.
func (pp *PathPlotter) Plot() *gonumplot.Plot {
	return pp.plt
}

// Save writes the plot to fname; the format follows the extension.
func (pp *PathPlotter) Save(fname string) error {
	if err := pp.plt.Save(pp.width, pp.height, fname); err != nil {
		return errors.Wrapf(err, "plot: save %s", fname)
	}
	return nil
}

// WriteTo writes the plot in the given format ("png", "svg", "pdf", ...).
func (pp *PathPlotter) WriteTo(w io.Writer, format string) (int64, error) {
	wt, err := pp.plt.WriterTo(pp.width, pp.height, format)
	if err != nil {
		return 0, errors.Wrapf(err, "plot: %s writer", format)
	}
	n, err := wt.WriteTo(w)
	if err != nil {
		return n, errors.Wrap(err, "plot: write")
	}
	return n, nil
}

// SavePath plots the coefficient paths of a fitted model to fname.
func SavePath(g *glm.GLM, fname string) error {
	if !g.IsFitted() {
		return errors.NewNotFittedError("GLM", "SavePath")
	}
	pp := NewPathPlotter()
	pp.plt.Title.Text = fmt.Sprintf("Regularization path (%s)", g.Distr())
	if err := pp.Add(g.FitRecords()); err != nil {
		return err
	}
	if err := pp.Save(fname); err != nil {
		return err
	}
	log.GetLoggerWithName("plot").Debug("Saved regularization path",
		log.DistributionKey, g.Distr().String(),
		log.PathLengthKey, len(g.FitRecords()),
		"file", fname,
	)
	return nil
}

// pathSeries returns one (log lambda, coefficient) series per entry of
// the coefficient matrix. Lambdas that are not positive have no log and
// are skipped.
func pathSeries(records []glm.FitRecord) ([]plotter.XYs, []string, error) {
	if len(records) == 0 {
		return nil, nil, errors.NewValidationError("records", "no fitted path to plot", 0)
	}
	p, k := records[0].Beta.Dims()

	var keep []int
	for i, r := range records {
		rp, rk := r.Beta.Dims()
		if rp != p || rk != k {
			return nil, nil, errors.NewDimensionError("plot.pathSeries", p*k, rp*rk, 0)
		}
		if r.Lambda > 0 {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, nil, errors.NewValidationError("reg_lambda",
			"a path plot needs at least one positive lambda", records[0].Lambda)
	}

	series := make([]plotter.XYs, 0, p*k)
	labels := make([]string, 0, p*k)
	for j := 0; j < p; j++ {
		for c := 0; c < k; c++ {
			pts := make(plotter.XYs, len(keep))
			for i, idx := range keep {
				r := records[idx]
				pts[i].X = math.Log(r.Lambda)
				pts[i].Y = r.Beta.At(j, c)
			}
			series = append(series, pts)
			if k == 1 {
				labels = append(labels, fmt.Sprintf("x%d", j))
			} else {
				labels = append(labels, fmt.Sprintf("x%d[%d]", j, c))
			}
		}
	}
	return series, labels, nil
}
