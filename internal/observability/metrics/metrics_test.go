package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("source", "transaction"),
		attribute.String("listing_id", "456"),
		attribute.String("endpoint", "/api/transaction-line-items"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "source" && attrs[1].Key != "source" {
		t.Fatalf("expected source to be retained")
	}
	if attrs[0].Key != "endpoint" && attrs[1].Key != "endpoint" {
		t.Fatalf("expected endpoint to be retained")
	}
}

func TestNilMetricsRecordIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordLineItems(nil, "transaction", 3)
	m.RecordPricingError(nil, "cart")
	m.RecordOrderInitiated(nil, true)
}
