// Package metrics computes accuracy of regression predictions.
//
// Functions take actual and predicted values of equal length and panic
// otherwise, the same way gonum/stat does.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MAE is the mean absolute error.
func MAE(actual, pred []float64) float64 {
	checkLen(actual, pred)
	if len(actual) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - pred[i])
	}
	return sum / float64(len(actual))
}

// MSE is the mean squared error.
func MSE(actual, pred []float64) float64 {
	checkLen(actual, pred)
	if len(actual) == 0 {
		return math.NaN()
	}
	return sse(actual, pred) / float64(len(actual))
}

// RMSE is the square root of MSE.
func RMSE(actual, pred []float64) float64 {
	return math.Sqrt(MSE(actual, pred))
}

// R2 is the coefficient of determination. For a constant actual series it
// is 1 when predictions are exact and 0 otherwise.
func R2(actual, pred []float64) float64 {
	checkLen(actual, pred)
	if len(actual) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, v := range actual {
		d := v - mean
		ssTot += d * d
	}
	ssRes := sse(actual, pred)
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Line is a least-squares line pred = Intercept + Slope × actual.
type Line struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	// R is the Pearson correlation of actual and predicted values.
	R float64 `json:"r"`
}

// Fit returns the least-squares line of predicted on actual values.
func Fit(actual, pred []float64) Line {
	checkLen(actual, pred)
	alpha, beta := stat.LinearRegression(actual, pred, nil, false)
	return Line{
		Intercept: alpha,
		Slope:     beta,
		R:         stat.Correlation(actual, pred, nil),
	}
}

// Summary collects all metrics of a prediction.
type Summary struct {
	N    int     `json:"n"`
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	Line Line    `json:"line"`
}

// Summarize computes all metrics.
func Summarize(actual, pred []float64) Summary {
	return Summary{
		N:    len(actual),
		MAE:  MAE(actual, pred),
		MSE:  MSE(actual, pred),
		RMSE: RMSE(actual, pred),
		R2:   R2(actual, pred),
		Line: Fit(actual, pred),
	}
}

// GroupError is the mean absolute error of a group of predictions.
type GroupError struct {
	Key string
	MAE float64
	N   int
}

// MAEBy groups predictions by key and returns the mean absolute error of
// every group, in order of first appearance of keys.
func MAEBy(keys []string, actual, pred []float64) []GroupError {
	checkLen(actual, pred)
	if len(keys) != len(actual) {
		panic("metrics: keys length mismatch")
	}
	idx := make(map[string]int)
	var res []GroupError
	sums := make([]float64, 0)
	for i, k := range keys {
		j, ok := idx[k]
		if !ok {
			j = len(res)
			idx[k] = j
			res = append(res, GroupError{Key: k})
			sums = append(sums, 0)
		}
		sums[j] += math.Abs(actual[i] - pred[i])
		res[j].N++
	}
	for j := range res {
		res[j].MAE = sums[j] / float64(res[j].N)
	}
	return res
}

// Residuals returns pred - actual.
func Residuals(actual, pred []float64) []float64 {
	checkLen(actual, pred)
	res := make([]float64, len(pred))
	floats.SubTo(res, pred, actual)
	return res
}

func sse(actual, pred []float64) float64 {
	var sum float64
	for i := range actual {
		d := actual[i] - pred[i]
		sum += d * d
	}
	return sum
}

func checkLen(actual, pred []float64) {
	if len(actual) != len(pred) {
		panic("metrics: slice length mismatch")
	}
}
