// Package batch implements the scenario batch driver of spec.md §4.H:
// given an M-row parameter table and a Domain, distribute scenarios
// across worker goroutines when M exceeds a sequential threshold, writing
// each result to its pre-assigned index in the result store. Grounded on
// the teacher's NSGA-II parallel-evaluation loop
// (algorithms/nsga2.go Run()), which uses the identical
// numWorkers/workChan/sync.WaitGroup shape; this package adds Prometheus
// metrics and OpenTelemetry spans around each scenario, the way the
// teacher's plugin wraps Score/Filter calls for the scheduler framework.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/climateforcing"
	"github.com/opencoral/adria/pkg/config"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/ecosystem"
	"github.com/opencoral/adria/pkg/resultstore"
	"github.com/opencoral/adria/pkg/runner"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

// SequentialThreshold is the scenario-count cutoff above which the driver
// parallelizes (spec.md §4.H: "if M > threshold (order of 64)").
const SequentialThreshold = 64

var tracer = otel.Tracer("github.com/opencoral/adria/pkg/batch")

var (
	scenariosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adria_scenarios_total",
		Help: "Total number of scenarios executed by the batch driver.",
	})
	scenarioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adria_scenario_duration_seconds",
		Help:    "Wall-clock duration of one scenario run.",
		Buckets: prometheus.DefBuckets,
	})
	scenarioFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adria_scenario_failures_total",
		Help: "Total number of scenarios that completed with a failure flag set.",
	})
)

// Row bundles one scenario's typed parameters with its pre-assigned
// result-store index.
type Row struct {
	Index  int
	Params scenarioparams.Params
}

// Run executes every row in rows against dom, writing each result to
// store at its Row.Index. Scenarios run sequentially when len(rows) does
// not exceed SequentialThreshold, and across runtime.NumCPU() worker
// goroutines otherwise, mirroring the teacher's NSGA-II population
// evaluation loop.
func Run(
	ctx context.Context,
	dom *domain.Domain,
	dhwForcing, waveForcing *climateforcing.Forcing,
	initialCover []float64,
	rows []Row,
	store resultstore.Store,
	cfg config.Config,
) {
	ctx, span := tracer.Start(ctx, "batch.Run", trace.WithAttributes(
		attribute.Int("adria.scenario_count", len(rows)),
	))
	defer span.End()

	logger := klog.FromContext(ctx).WithValues("scenarioCount", len(rows))

	if len(rows) <= SequentialThreshold {
		logger.V(2).Info("running batch sequentially")
		for _, row := range rows {
			runOne(ctx, dom, dhwForcing, waveForcing, initialCover, row, store, cfg)
		}
		return
	}

	numWorkers := runtime.NumCPU()
	logger.V(2).Info("running batch in parallel", "workers", numWorkers)

	workChan := make(chan Row, len(rows))
	wg := &sync.WaitGroup{}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range workChan {
				runOne(ctx, dom, dhwForcing, waveForcing, initialCover, row, store, cfg)
			}
		}()
	}

	for _, row := range rows {
		workChan <- row
	}
	close(workChan)
	wg.Wait()
}

func runOne(
	ctx context.Context,
	dom *domain.Domain,
	dhwForcing, waveForcing *climateforcing.Forcing,
	initialCover []float64,
	row Row,
	store resultstore.Store,
	cfg config.Config,
) {
	_, span := tracer.Start(ctx, "batch.scenario", trace.WithAttributes(
		attribute.Int("adria.scenario_index", row.Index),
	))
	defer span.End()

	start := time.Now()
	var integrator ecosystem.GrowthIntegrator
	result := runner.Run(dom, row.Params, dhwForcing, waveForcing, initialCover, row.Index, cfg, integrator)
	scenarioDuration.Observe(time.Since(start).Seconds())
	scenariosTotal.Inc()

	if result.Failed {
		scenarioFailures.Inc()
	}

	if err := store.Put(result); err != nil {
		klog.FromContext(ctx).Error(err, "failed to write scenario result", "scenarioIndex", row.Index)
	}
}

// RowsFromTable converts a wire-level scenario parameter table into Rows
// indexed by their position in the table, the batch driver's natural
// pre-assignment (spec.md §4.H "written to the result store at its
// pre-assigned index").
func RowsFromTable(table []v1alpha1.ScenarioParamsRow) []Row {
	rows := make([]Row, len(table))
	for i, r := range table {
		rows[i] = Row{Index: i, Params: scenarioparams.FromRow(r)}
	}
	return rows
}
