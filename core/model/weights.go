package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// PathPoint は正則化パス上の1点の係数（シリアライゼーション用）
type PathPoint struct {
	// Lambda はこの点の正則化強度
	Lambda float64 `json:"lambda"`

	// Intercepts は切片（多項分布ではクラスごと）
	Intercepts []float64 `json:"intercepts"`

	// Coefficients は n_features x n_classes の係数を行優先で並べたもの
	Coefficients []float64 `json:"coefficients"`
}

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（GLM等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	// NFeatures, NClasses は係数行列の形
	NFeatures int `json:"n_features"`
	NClasses  int `json:"n_classes"`

	// Path は学習順の正則化パス
	Path []PathPoint `json:"path"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "model weights: marshal")
	}
	return b, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "model weights: unmarshal")
	}
	return nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if !mw.IsFitted && len(mw.Path) > 0 {
		return errors.NewValidationError("path", "unfitted model should not have coefficients", len(mw.Path))
	}
	if mw.IsFitted && len(mw.Path) == 0 {
		return errors.NewValidationError("path", "fitted model must have coefficients", 0)
	}
	for i, p := range mw.Path {
		if len(p.Intercepts) != mw.NClasses {
			return errors.NewDimensionError("ModelWeights.Validate", mw.NClasses, len(p.Intercepts), 1)
		}
		if len(p.Coefficients) != mw.NFeatures*mw.NClasses {
			return errors.NewValidationError("path",
				"coefficient count does not match n_features*n_classes", i)
		}
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		NFeatures:       mw.NFeatures,
		NClasses:        mw.NClasses,
		IsFitted:        mw.IsFitted,
		Path:            make([]PathPoint, len(mw.Path)),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	for i, p := range mw.Path {
		clone.Path[i] = PathPoint{
			Lambda:       p.Lambda,
			Intercepts:   append([]float64(nil), p.Intercepts...),
			Coefficients: append([]float64(nil), p.Coefficients...),
		}
	}

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
