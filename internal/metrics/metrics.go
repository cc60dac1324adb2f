package metrics

import "expvar"

var (
	DataRequests  = expvar.NewInt("data_requests")
	DataErrors    = expvar.NewInt("data_errors")
	ControlFlips  = expvar.NewInt("control_flips")
	IngestRuns    = expvar.NewInt("ingest_runs")
	IngestRows    = expvar.NewInt("ingest_rows")
	IngestErrors  = expvar.NewInt("ingest_errors")
	ExportedCSVs  = expvar.NewInt("exported_csvs")
	PollCycles    = expvar.NewInt("poll_cycles")
	PollErrors    = expvar.NewInt("poll_errors")
	PollSkipped   = expvar.NewInt("poll_skipped")
	HealthRefresh = expvar.NewInt("health_refresh")
)
