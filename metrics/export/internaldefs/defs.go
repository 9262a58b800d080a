package internaldefs

import (
	goCredStore "github.com/MrEthical07/goCredStore"
)

// CounterDef defines a public type used by goCredStore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCredStore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goCredStore APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goCredStore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the credential store.
var CounterDefs = []CounterDef{
	{ID: goCredStore.MetricLoadAccepted, Name: "credstore_load_accepted_total", Help: "Accepted load events."},
	{ID: goCredStore.MetricMigrationStarted, Name: "credstore_migration_started_total", Help: "Accepted legacy migration events."},
	{ID: goCredStore.MetricStoreAccepted, Name: "credstore_store_accepted_total", Help: "Accepted store events."},
	{ID: goCredStore.MetricClearAccepted, Name: "credstore_clear_accepted_total", Help: "Accepted clear events."},
	{ID: goCredStore.MetricOperationSucceeded, Name: "credstore_operation_succeeded_total", Help: "Backend operations that reached Success."},
	{ID: goCredStore.MetricOperationFailed, Name: "credstore_operation_failed_total", Help: "Backend operations that reached Failure."},
	{ID: goCredStore.MetricRejectionAlreadyConfigured, Name: "credstore_rejection_already_configured_total", Help: "Load events rejected because the store is already configured."},
	{ID: goCredStore.MetricRejectionNotConfigured, Name: "credstore_rejection_not_configured_total", Help: "Events rejected because the store was never loaded."},
	{ID: goCredStore.MetricRejectionHasError, Name: "credstore_rejection_has_error_total", Help: "Events rejected because the store rests in Failure."},
	{ID: goCredStore.MetricRejectionBusy, Name: "credstore_rejection_busy_total", Help: "Events rejected because an operation is in flight."},
	{ID: goCredStore.MetricRejectionCannotMigrate, Name: "credstore_rejection_cannot_migrate_total", Help: "Migration events rejected outside the load path."},
	{ID: goCredStore.MetricTokenExpiredRejected, Name: "credstore_token_expired_rejected_total", Help: "Store calls refused for carrying an expired access token."},
}

// HistogramDefs is an exported constant or variable used by the credential store.
var HistogramDefs = []HistogramDef{
	{ID: goCredStore.MetricBackendLatency, Name: "credstore_backend_latency_seconds", Help: "Backend operation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the credential store.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the credential store.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
