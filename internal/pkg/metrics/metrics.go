// Package metrics registers the Prometheus instruments updated from the
// service layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProvisionedTotal counts per-student provisioning outcomes.
	ProvisionedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuskeys_provisioned_total",
			Help: "Per-student provisioning outcomes",
		},
		[]string{"outcome"},
	)

	// AccountsCreatedTotal counts identity-provider accounts actually created
	// (existing accounts reused by idempotence are not counted).
	AccountsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campuskeys_accounts_created_total",
			Help: "Identity provider accounts created",
		},
	)

	// BulkItemsTotal counts bulk lifecycle items by operation and result.
	BulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campuskeys_bulk_items_total",
			Help: "Bulk lifecycle operation items processed",
		},
		[]string{"operation", "result"},
	)

	// DirectoryScansTotal counts full organizational-space enumerations, the
	// expensive operator-triggered fallback.
	DirectoryScansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campuskeys_directory_full_scans_total",
			Help: "Full organizational-space directory enumerations",
		},
	)
)

// Outcome labels for ProvisionedTotal.
const (
	OutcomeProvisioned = "provisioned"
	OutcomePartial     = "partial" // record written, account creation failed
	OutcomeFailed      = "failed"
)

// Result labels for BulkItemsTotal.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)
