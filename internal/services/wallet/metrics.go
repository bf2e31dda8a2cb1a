package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsCollector receives ledger operation metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordError(operation, reason string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordTransaction(string, decimal.Decimal)    {}
func (n *NoopMetricsCollector) RecordError(string, string)                   {}
