package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "GLM.Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "glmnet: GLM.Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "GLM.Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "glmnet: GLM.Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("GLM.Predict", 5, 3, 1)

	want := "glmnet: GLM.Predict: dimension mismatch on axis 1 (features). Expected 5, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 5 || dimErr.Got != 3 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("GLM", "Score")

	want := "glmnet: GLM: this model is not fitted yet. Call Fit() before using Score()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Tau", "should be (n_features x n_features)", "3x2")

	want := "glmnet: validation failed for parameter 'Tau': should be (n_features x n_features) (got: 3x2)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "Tau" {
		t.Errorf("ParamName = %q, want Tau", valErr.ParamName)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("GLM.PredictProba", "only applicable for the multinomial distribution")

	want := "glmnet: GLM.PredictProba: only applicable for the multinomial distribution"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "with message",
			message: "lambda 0.5",
			want:    "cdfast failed to converge after 1000 iterations: lambda 0.5",
		},
		{
			name:    "default message",
			message: "",
			want:    "cdfast failed to converge after 1000 iterations. Consider increasing max_iter or tol.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warn := NewConvergenceWarning("cdfast", 1000, tt.message)
			if warn.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", warn.Error(), tt.want)
			}
		})
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewConvergenceWarning("batch-gradient", 10, ""))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning through handler, got %d", len(got))
	}

	var routed []error
	SetZerologWarnFunc(func(w error) { routed = append(routed, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewUndefinedMetricWarning("pseudo_R2", "LS == L0", 0))
	if len(routed) != 1 || len(got) != 1 {
		t.Errorf("expected zerolog func to take precedence, got handler=%d zerolog=%d", len(got), len(routed))
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var sb strings.Builder
	logger := zerolog.New(&sb)

	logger.Warn().Object("warning", NewConvergenceWarning("cdfast", 7, "")).Msg("w")
	logger.Error().Object("error", &NumericalInstabilityError{
		Operation: "loss",
		Values:    []float64{math.NaN()},
		Iteration: 3,
	}).Msg("e")

	out := sb.String()
	for _, want := range []string{`"algorithm":"cdfast"`, `"type":"ConvergenceWarning"`, `"operation":"loss"`, `"iteration":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrUnknownSolver, "in GLM.Fit")

	if !Is(wrapped, ErrUnknownSolver) {
		t.Error("Expected Is(wrapped, ErrUnknownSolver) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in GLM.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Fit", 10, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Fit: expected 10, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("loss", 1.5, 0); err != nil {
		t.Errorf("finite value should pass, got %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := CheckScalar("loss", v, 4)
		var numErr *NumericalInstabilityError
		if !As(err, &numErr) {
			t.Fatalf("expected NumericalInstabilityError for %v, got %v", v, err)
		}
		if numErr.Iteration != 4 {
			t.Errorf("Iteration = %d, want 4", numErr.Iteration)
		}
	}
}

func TestLogSumExp(t *testing.T) {
	got := LogSumExp([]float64{1000, 1000})
	want := 1000 + math.Log(2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogSumExp = %v, want %v", got, want)
	}
	if !math.IsInf(LogSumExp(nil), -1) {
		t.Error("LogSumExp of empty slice should be -Inf")
	}
}
