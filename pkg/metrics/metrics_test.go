package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)

	metrics.IncCartAdd()
	metrics.IncCartAdd()
	metrics.IncCartRejection("insufficient_stock")
	metrics.ObserveCheckout(3)
	metrics.ObserveCatalogLoad(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_adds_total"); err != nil {
		t.Fatalf("fetch adds: %v", err)
	} else if got != 2 {
		t.Fatalf("expected adds=2, got %f", got)
	}

	if got, err := fetchLabeledCounterValue(mfs, "cart_rejections_total", "reason", "insufficient_stock"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_units_total"); err != nil {
		t.Fatalf("fetch units: %v", err)
	} else if got != 3 {
		t.Fatalf("expected units=3, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "catalog_load_seconds"); err != nil {
		t.Fatalf("fetch load histogram: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected load sum > 0, got %f", got)
	}
}

func TestStorefrontMetricsNilRegistererIsNoOp(t *testing.T) {
	metrics := NewStorefrontMetrics(nil)
	metrics.IncCartAdd()
	metrics.IncCartRejection("any")
	metrics.ObserveCheckout(1)
	metrics.ObserveCatalogLoad(time.Second)

	var nilMetrics *StorefrontMetrics
	nilMetrics.IncCartAdd()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetCounter().GetValue(), nil
	}
	return 0, fmt.Errorf("metric %q has no samples", name)
}

func fetchLabeledCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetHistogram().GetSampleSum(), nil
	}
	return 0, fmt.Errorf("histogram %q has no samples", name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
