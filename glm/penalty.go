package glm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// penalty is the elastic net 0.5(1-alpha)*||Tau beta||² + alpha*L1(beta),
// where L1 is a group lasso when group ids are set. Multinomial coefficient
// matrices are penalized column by column.
type penalty struct {
	alpha float64

	// tau and invCov are nil for the identity metric.
	tau    *mat.Dense
	invCov *mat.Dense

	// group is nil for plain L1. groupIDs holds the distinct nonzero ids.
	group    []int
	groupIDs []int
}

// tikhonovMatrix copies tau into a Dense. A nil interface, a nil pointer or
// an empty matrix all mean identity and return nil.
func tikhonovMatrix(tau mat.Matrix) *mat.Dense {
	switch t := tau.(type) {
	case nil:
		return nil
	case *mat.Dense:
		if t == nil || t.IsEmpty() {
			return nil
		}
	case *mat.DiagDense:
		if t == nil || t.IsEmpty() {
			return nil
		}
	}
	return mat.DenseCopyOf(tau)
}

func newPenalty(alpha float64, tau mat.Matrix, group []int, nFeatures int) (*penalty, error) {
	p := &penalty{alpha: alpha}

	if td := tikhonovMatrix(tau); td != nil {
		r, c := td.Dims()
		if r != nFeatures || c != nFeatures {
			return nil, errors.NewValidationError("Tau",
				"Tau should be (n_features x n_features)", []int{r, c})
		}
		p.tau = td
		p.invCov = mat.NewDense(nFeatures, nFeatures, nil)
		p.invCov.Mul(p.tau.T(), p.tau)
	}

	if group != nil {
		if len(group) != nFeatures {
			return nil, errors.NewValidationError("group",
				"group should be (n_features,)", len(group))
		}
		seen := make(map[int]bool)
		for _, g := range group {
			if g < 0 {
				return nil, errors.NewValidationError("group",
					"group ids must be non-negative integers", g)
			}
			if g != 0 && !seen[g] {
				seen[g] = true
				p.groupIDs = append(p.groupIDs, g)
			}
		}
		sort.Ints(p.groupIDs)
		p.group = append([]int(nil), group...)
	}

	return p, nil
}

// l2 returns ||Tau beta||² summed over coefficient columns.
func (p *penalty) l2(beta *mat.Dense) float64 {
	if p.tau == nil {
		return sumSquares(beta)
	}
	var tb mat.Dense
	tb.Mul(p.tau, beta)
	return sumSquares(&tb)
}

// l1 returns the plain or grouped L1 norm summed over coefficient columns.
func (p *penalty) l1(beta *mat.Dense) float64 {
	r, k := beta.Dims()
	var total float64
	for c := 0; c < k; c++ {
		if p.group == nil {
			for j := 0; j < r; j++ {
				total += math.Abs(beta.At(j, c))
			}
			continue
		}
		sq := p.groupSquares(beta, c)
		for _, id := range p.groupIDs {
			total += math.Sqrt(sq[id])
		}
		for j, g := range p.group {
			if g == 0 {
				total += math.Abs(beta.At(j, c))
			}
		}
	}
	return total
}

func (p *penalty) value(beta *mat.Dense) float64 {
	return 0.5*(1-p.alpha)*p.l2(beta) + p.alpha*p.l1(beta)
}

// groupSquares returns the squared L2 norm of each nonzero group in column c.
func (p *penalty) groupSquares(beta *mat.Dense, c int) map[int]float64 {
	sq := make(map[int]float64, len(p.groupIDs))
	for j, g := range p.group {
		if g != 0 {
			v := beta.At(j, c)
			sq[g] += v * v
		}
	}
	return sq
}

// prox applies the proximal operator of the L1 term at threshold thresh to
// beta in place. Entries at or below the threshold become exactly zero.
func (p *penalty) prox(beta *mat.Dense, thresh float64) {
	r, k := beta.Dims()
	for c := 0; c < k; c++ {
		if p.group == nil {
			for j := 0; j < r; j++ {
				beta.Set(j, c, softThreshold(beta.At(j, c), thresh))
			}
			continue
		}

		sq := p.groupSquares(beta, c)
		for j, g := range p.group {
			v := beta.At(j, c)
			norm := math.Abs(v)
			if g != 0 {
				norm = math.Sqrt(sq[g])
			}
			if norm > 0 && norm > thresh {
				beta.Set(j, c, v-thresh*v/norm)
			} else {
				beta.Set(j, c, 0)
			}
		}
	}
}

// l2Grad returns (TauᵀTau beta)[j, c].
func (p *penalty) l2Grad(beta *mat.Dense, j, c int) float64 {
	if p.invCov == nil {
		return beta.At(j, c)
	}
	var s float64
	for m, w := range p.invCov.RawRowView(j) {
		s += w * beta.At(m, c)
	}
	return s
}

// l2Hess returns (TauᵀTau)[j, j].
func (p *penalty) l2Hess(j int) float64 {
	if p.invCov == nil {
		return 1
	}
	return p.invCov.At(j, j)
}

// addL2Gradient adds scale * TauᵀTau beta to grad.
func (p *penalty) addL2Gradient(grad, beta *mat.Dense, scale float64) {
	if scale == 0 {
		return
	}
	var g mat.Dense
	if p.invCov == nil {
		g.Scale(scale, beta)
	} else {
		g.Mul(p.invCov, beta)
		g.Scale(scale, &g)
	}
	grad.Add(grad, &g)
}

func softThreshold(v, thresh float64) float64 {
	a := math.Abs(v)
	if a <= thresh {
		return 0
	}
	return math.Copysign(a-thresh, v)
}

func sumSquares(m mat.Matrix) float64 {
	r, c := m.Dims()
	var s float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			s += v * v
		}
	}
	return s
}
