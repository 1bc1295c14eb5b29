package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.GateDecisions == nil || m.CapitalEntriesCreated == nil || m.HTTPRequests == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.GateDecision(domain.OperationCapitalEntry, domain.AuditDecisionApprovedByGrant)
	m.SecurityViolation(domain.OperationCapitalEntry)
	m.AuditTrailFailure()
	m.CapitalEntryCreated(domain.EntryTypeCapitalIn)
	m.CapitalEntryRejected("insufficient_balance")
	m.ObserveCapitalEntryAmount(decimal.NewFromInt(150))
	m.RevenueEntryCreated(domain.RevenueCustomerReceipt)
	m.SummaryRecomputed("2024-03")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
