package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewPlacementMetricsWith(t *testing.T) {
	metrics := NewPlacementMetricsWith(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("NewPlacementMetricsWith should not return nil")
	}
	if metrics.placementStarted == nil {
		t.Error("placementStarted counter should not be nil")
	}
	if metrics.placementCommitted == nil {
		t.Error("placementCommitted counter should not be nil")
	}
	if metrics.placementRejected == nil {
		t.Error("placementRejected counter vec should not be nil")
	}
	if metrics.placementDuration == nil {
		t.Error("placementDuration histogram should not be nil")
	}
	if metrics.lockWait == nil {
		t.Error("lockWait histogram should not be nil")
	}
	if metrics.inflightPlacements == nil {
		t.Error("inflightPlacements gauge should not be nil")
	}
}

func TestNewPlacementMetricsWith_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewPlacementMetricsWith(reg)
	second := NewPlacementMetricsWith(reg)

	// Повторная регистрация возвращает уже существующие коллекторы.
	if first.placementStarted != second.placementStarted {
		t.Error("expected the same started counter on re-registration")
	}
}

func TestRecordStartedCommitted(t *testing.T) {
	metrics := NewPlacementMetricsWith(prometheus.NewRegistry())

	metrics.RecordStarted()
	metrics.RecordCommitted()

	metric := &dto.Metric{}
	if err := metrics.placementCommitted.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}

	gauge := &dto.Metric{}
	if err := metrics.inflightPlacements.Write(gauge); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gauge.Gauge.GetValue() != 0.0 {
		t.Errorf("expected zero inflight after commit, got %f", gauge.Gauge.GetValue())
	}
}

func TestRecordRejected(t *testing.T) {
	metrics := NewPlacementMetricsWith(prometheus.NewRegistry())

	metrics.RecordStarted()
	metrics.RecordRejected("out_of_stock")

	metric := &dto.Metric{}
	counter, err := metrics.placementRejected.GetMetricWithLabelValues("out_of_stock")
	if err != nil {
		t.Fatalf("get labeled counter: %v", err)
	}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *PlacementMetrics

	// Вызовы на nil не должны паниковать: сервисы создаются без метрик в тестах.
	metrics.RecordStarted()
	metrics.RecordCommitted()
	metrics.RecordRejected("not_found")
	metrics.RecordDuration(time.Millisecond)
	metrics.RecordLockWait(time.Millisecond)
}
