package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter_UnknownName(t *testing.T) {
	if _, err := NewTracingExporter(context.Background(), "jaeger"); err == nil {
		t.Error("NewTracingExporter(jaeger) = nil error, want error")
	}
}

func TestNewTracingExporter_None(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewTracingExporter(none) error = %v", err)
	}
	if exp == nil {
		t.Fatal("NewTracingExporter(none) = nil exporter")
	}
	_ = exp.Shutdown(context.Background())
}

func TestNewMetricsReader_UnknownName(t *testing.T) {
	if _, err := NewMetricsReader(context.Background(), "statsd"); err == nil {
		t.Error("NewMetricsReader(statsd) = nil error, want error")
	}
}

func TestNewMetricsReader_None(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewMetricsReader(none) error = %v", err)
	}
	if reader == nil {
		t.Fatal("NewMetricsReader(none) = nil reader")
	}
	_ = reader.Shutdown(context.Background())
}
