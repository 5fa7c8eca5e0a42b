package report

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/daryltucker/predict-runner/internal/model"
)

// Group splits samples by case and returns the case names in lexicographic order.
func Group(samples []model.Sample) ([]string, map[string][]float64) {
	grouped := lo.GroupBy(samples, func(s model.Sample) string { return s.Case })

	values := make(map[string][]float64, len(grouped))
	for name, group := range grouped {
		values[name] = lo.Map(group, func(s model.Sample, _ int) float64 { return s.ElapsedMs })
	}

	names := lo.Keys(values)
	slices.Sort(names)
	return names, values
}

// Averages returns the arithmetic mean of elapsed_ms per case, sorted by case.
func Averages(samples []model.Sample) []model.Average {
	names, values := Group(samples)
	return lo.Map(names, func(name string, _ int) model.Average {
		return model.Average{Case: name, AvgMs: stat.Mean(values[name], nil)}
	})
}
