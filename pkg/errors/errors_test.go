package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("NaNLabelEncoder", "Transform")

	want := "missingdata: NaNLabelEncoder: this estimator is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Error("Error should be castable to *NotFittedError")
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewValidationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "unknown mechanism",
			param:   "mechanism",
			reason:  "unknown missing data mechanism. Must be one of: mcar mar nmar",
			value:   "mnar",
			wantMsg: "missingdata: validation failed for parameter 'mechanism': unknown missing data mechanism. Must be one of: mcar mar nmar (got: mnar)",
		},
		{
			name:    "bad probability",
			param:   "missingLikelihood",
			reason:  "must be in [0, 1]",
			value:   1.5,
			wantMsg: "missingdata: validation failed for parameter 'missingLikelihood': must be in [0, 1] (got: 1.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.param, tt.reason, tt.value)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var validationErr *ValidationError
			if !As(err, &validationErr) {
				t.Error("Error should be castable to *ValidationError")
			}
		})
	}
}

func TestNewUnseenLabelError(t *testing.T) {
	err := NewUnseenLabelError("NaNLabelEncoder.Transform", []string{"c", "d"})

	want := "missingdata: NaNLabelEncoder.Transform: y contains previously unseen labels: [c, d]"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var unseen *UnseenLabelError
	if !As(err, &unseen) {
		t.Error("Error should be castable to *UnseenLabelError")
	}
	if len(unseen.Labels) != 2 || unseen.Labels[0] != "c" {
		t.Errorf("Labels = %v, want [c d]", unseen.Labels)
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("SplitIncompleteData", 150, 100, 0)

	want := "missingdata: SplitIncompleteData: dimension mismatch on axis 0 (rows). Expected 150, got 100"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestErrorWrapping(t *testing.T) {
	base := New("base error")
	wrapped := Wrap(base, "context")

	if !Is(wrapped, base) {
		t.Error("wrapped error should match base via Is")
	}
}
