// Package metrics はGLMの適合度評価（対数尤度、逸脱度、疑似決定係数）を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// eps は log(0) を避けるために予測値へ加える値（float64のマシンイプシロン）
const eps = 2.220446049250313e-16

// checkPair は y と yhat の形が一致することを検証する
func checkPair(op string, y, yhat mat.Matrix) (int, int, error) {
	r, c := y.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	pr, pc := yhat.Dims()
	if pr != r {
		return 0, 0, errors.NewDimensionError(op, r, pr, 0)
	}
	if pc != c {
		return 0, 0, errors.NewDimensionError(op, c, pc, 1)
	}
	return r, c, nil
}

// PoissonLogLikelihood はポアソン分布の対数尤度 Σ(y·log(ŷ+eps) − ŷ) を計算する
// （log(y!) の定数項は除く）
func PoissonLogLikelihood(y, yhat mat.Matrix) (float64, error) {
	r, c, err := checkPair("PoissonLogLikelihood", y, yhat)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			mu := yhat.At(i, j)
			sum += y.At(i, j)*math.Log(mu+eps) - mu
		}
	}
	return sum, nil
}

// GaussianLogLikelihood は正規分布の対数尤度 −½Σ(y − ŷ)² を計算する
func GaussianLogLikelihood(y, yhat mat.Matrix) (float64, error) {
	r, c, err := checkPair("GaussianLogLikelihood", y, yhat)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := y.At(i, j) - yhat.At(i, j)
			sum += d * d
		}
	}
	return -0.5 * sum, nil
}

// BinomialLogLikelihood は二項分布の対数尤度 Σ(y·log(ŷ+eps) + (1−y)·log(1−ŷ+eps)) を計算する
func BinomialLogLikelihood(y, yhat mat.Matrix) (float64, error) {
	r, c, err := checkPair("BinomialLogLikelihood", y, yhat)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			yi, p := y.At(i, j), yhat.At(i, j)
			sum += yi*math.Log(p+eps) + (1-yi)*math.Log(1-p+eps)
		}
	}
	return sum, nil
}

// MultinomialLogLikelihood は多項分布の対数尤度 Σ y·log(p+eps) を計算する
// （y はone-hot、p はクラス確率）
func MultinomialLogLikelihood(y, p mat.Matrix) (float64, error) {
	r, c, err := checkPair("MultinomialLogLikelihood", y, p)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if yi := y.At(i, j); yi != 0 {
				sum += yi * math.Log(p.At(i, j)+eps)
			}
		}
	}
	return sum, nil
}

// Deviance は逸脱度 −2(L1 − LS) を返す
//
// L1 は適合モデル、LS は飽和モデルの対数尤度（ポアソン系以外では0）
func Deviance(l1, ls float64) float64 {
	return -2 * (l1 - ls)
}

// PseudoR2 はMcFaddenの疑似決定係数を返す
//
// saturated が true（ポアソン系）のとき 1 − (LS − L1)/(LS − L0)、
// それ以外は 1 − L1/L0。分母が0の場合は UndefinedMetricWarning を出して0を返す。
func PseudoR2(l1, l0, ls float64, saturated bool) float64 {
	num, den := l1, l0
	if saturated {
		num, den = ls-l1, ls-l0
	}
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("pseudo_R2",
			"null model log-likelihood equals the reference", 0))
		return 0
	}
	return 1 - num/den
}
