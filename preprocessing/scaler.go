// Package preprocessing provides feature scaling applied to a design matrix
// before it is handed to a GLM.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goglmnet/core/model"
	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// minScale 未満の標準偏差は定数特徴量とみなす
const minScale = 1e-8

// StandardScaler は各特徴量を平均0、標準偏差1に変換する。
// 正則化の強さは係数の大きさに依存するため、GLMの学習前に使う。
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差（母標準偏差）
	Scale []float64

	// WithMean は平均を引くかどうか
	WithMean bool

	// WithStd は標準偏差で割るかどうか
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	Xs, err := scaler.FitTransform(X)
//	err = g.Fit(Xs, y)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault は平均・標準偏差の両方を使うStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから平均と標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.state.Reset()
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && std >= minScale {
			s.Scale[j] = std
		}
	}

	s.state.SetDimensions(c, r, 0)
	s.state.SetFitted()
	return nil
}

func (s *StandardScaler) check(method string, X mat.Matrix) (int, int, error) {
	if err := s.state.RequireFitted("StandardScaler", method); err != nil {
		return 0, 0, err
	}
	r, c := X.Dims()
	nFeatures, _, _ := s.state.GetDimensions()
	if c != nFeatures {
		return 0, 0, errors.NewDimensionError("StandardScaler."+method, nFeatures, c, 1)
	}
	return r, c, nil
}

// Transform は学習済みの統計量でデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	r, c, err := s.check("Transform", X)
	if err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	r, c, err := s.check("InverseTransform", X)
	if err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

// IsFitted は学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}
