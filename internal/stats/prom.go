package stats

import (
	"io"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/verte-zerg/cubetime/internal/model"
)

// WritePrometheus writes the summary in the Prometheus text exposition
// format, suitable for a node_exporter textfile collector. Unavailable
// averages are omitted.
func WritePrometheus(w io.Writer, solves []model.Solve) error {
	for _, mf := range metricFamilies(Summarize(solves)) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func metricFamilies(sum Summary) []*dto.MetricFamily {
	averages := &dto.MetricFamily{
		Name: ptr("cubetime_average_seconds"),
		Help: ptr("Mean of the most recent solves; window=all is the overall mean."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for _, n := range Windows {
		if avg := sum.ByWindow(n); avg.OK {
			averages.Metric = append(averages.Metric, gauge(avg.Millis/1000, "window", strconv.Itoa(n)))
		}
	}
	if sum.Overall.OK {
		averages.Metric = append(averages.Metric, gauge(sum.Overall.Millis/1000, "window", "all"))
	}

	families := []*dto.MetricFamily{{
		Name:   ptr("cubetime_solves"),
		Help:   ptr("Number of recorded solves."),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{gauge(float64(sum.Count))},
	}}
	if len(averages.Metric) > 0 {
		families = append(families, averages)
	}
	if sum.Best.OK {
		families = append(families,
			&dto.MetricFamily{
				Name:   ptr("cubetime_best_seconds"),
				Help:   ptr("Fastest single solve."),
				Type:   dto.MetricType_GAUGE.Enum(),
				Metric: []*dto.Metric{gauge(sum.Best.Millis / 1000)},
			},
			&dto.MetricFamily{
				Name:   ptr("cubetime_worst_seconds"),
				Help:   ptr("Slowest single solve."),
				Type:   dto.MetricType_GAUGE.Enum(),
				Metric: []*dto.Metric{gauge(sum.Worst.Millis / 1000)},
			},
		)
	}
	return families
}

// gauge builds a gauge sample; labels are name/value pairs.
func gauge(value float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: ptr(value)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{Name: ptr(labels[i]), Value: ptr(labels[i+1])})
	}
	return m
}

func ptr[T any](v T) *T {
	return &v
}
