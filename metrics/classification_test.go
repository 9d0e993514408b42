package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect predictions",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "all wrong",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{1, 1, 0, 0},
			want:  0.0,
		},
		{
			name:  "half correct",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0, 1, 1, 0},
			want:  0.5,
		},
		{
			name:    "length mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorRate(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 1, 0, 1})
	yPred := mat.NewVecDense(4, []float64{0, 1, 1, 1})

	got, err := ErrorRate(yTrue, yPred)
	if err != nil {
		t.Fatalf("ErrorRate() error = %v", err)
	}
	if got != 0.25 {
		t.Errorf("ErrorRate() = %v, want 0.25", got)
	}
}

func TestColumnMissingFractions(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(4, 3, []float64{
		1, nan, 1,
		2, nan, 2,
		3, nan, nan,
		4, 4, 4,
	})

	fractions, err := ColumnMissingFractions(X)
	if err != nil {
		t.Fatalf("ColumnMissingFractions() error = %v", err)
	}

	want := []float64{0, 0.75, 0.25}
	for j, w := range want {
		if fractions[j] != w {
			t.Errorf("column %d fraction = %v, want %v", j, fractions[j], w)
		}
	}
}

func TestMissingFraction(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(2, 2, []float64{
		1, nan,
		nan, 4,
	})

	got, err := MissingFraction(X)
	if err != nil {
		t.Fatalf("MissingFraction() error = %v", err)
	}
	if got != 0.5 {
		t.Errorf("MissingFraction() = %v, want 0.5", got)
	}
}

