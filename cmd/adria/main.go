// Command adria is the CLI envelope spec.md §6 describes: two entry
// points, run and select, layered over the engine's environment
// configuration. Grounded on the corpus's cobra/pflag usage (the teacher's
// go.mod carries both; this CLI is the concrete binary neither the
// teacher's retrieved pkg/ tree nor spec.md §1 non-goals require be
// elaborate, since spec.md scopes CLI/driver surface "out of core scope,
// specified only as the envelope").
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	v1alpha1 "github.com/opencoral/adria/pkg/api/v1alpha1"
	"github.com/opencoral/adria/pkg/apierrors"
	"github.com/opencoral/adria/pkg/batch"
	"github.com/opencoral/adria/pkg/climateforcing"
	"github.com/opencoral/adria/pkg/config"
	"github.com/opencoral/adria/pkg/domain"
	"github.com/opencoral/adria/pkg/mcda/selector"
	"github.com/opencoral/adria/pkg/resultstore"
	"github.com/opencoral/adria/pkg/scenarioparams"
)

func main() {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adria",
		Short: "Monte Carlo decision-support engine for coral reef restoration planning",
	}
	root.AddCommand(newRunCmd(), newSelectCmd())
	return root
}

// runInput is the file shape the run subcommand reads: a Domain plus a
// scenario parameter table, matching spec.md §6's domain/params inputs.
type runInput struct {
	Domain    v1alpha1.DomainInputs        `json:"domain"`
	Scenarios []v1alpha1.ScenarioParamsRow `json:"scenarios"`
	DHW       []float64                    `json:"dhw"`
	Wave      []float64                    `json:"wave"`
	Replicates int                          `json:"replicates"`
}

func newRunCmd() *cobra.Command {
	var inputPath, outputPath string
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run(domain, params, reps): execute a scenario batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			var in runInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parsing input: %w", err)
			}

			dom, err := domain.New(in.Domain)
			if err != nil {
				return fmt.Errorf("constructing domain: %w", err)
			}

			reps := cfg.Reps
			if in.Replicates > 0 {
				reps = in.Replicates
			}

			dhwForcing, err := climateforcing.New(in.DHW, dom.HorizonYears, dom.N(), reps)
			if err != nil {
				return fmt.Errorf("dhw forcing: %w", err)
			}
			waveForcing, err := climateforcing.New(in.Wave, dom.HorizonYears, dom.N(), reps)
			if err != nil {
				return fmt.Errorf("wave forcing: %w", err)
			}

			store := resultstore.NewInMemory()
			rows := batch.RowsFromTable(in.Scenarios)
			batch.Run(ctx, dom, dhwForcing, waveForcing, in.Domain.InitialCover, rows, store, cfg)

			out, err := json.Marshal(store.All())
			if err != nil {
				return fmt.Errorf("marshaling results: %w", err)
			}
			if outputPath == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outputPath, out, 0o644)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON runInput document")
	cmd.Flags().StringVar(&outputPath, "output", "", "path to write JSON results (stdout if unset)")
	cfg.BindFlags(cmd.Flags())
	cmd.MarkFlagRequired("input")
	return cmd
}

// selectInput is the file shape the select subcommand reads: a domain plus
// one scenario row and the current cover state, matching spec.md §6's
// select(domain, params, cover, area, t) entry point.
type selectInput struct {
	Domain v1alpha1.DomainInputs        `json:"domain"`
	Params v1alpha1.ScenarioParamsRow   `json:"params"`
	Cover  []float64                    `json:"cover"`
	Year   int                          `json:"year"`
	DHW    []float64                    `json:"dhw"`
	Wave   []float64                    `json:"wave"`
}

func newSelectCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "select(domain, params, cover, area, t): rank sites for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			var in selectInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parsing input: %w", err)
			}

			dom, err := domain.New(in.Domain)
			if err != nil {
				return fmt.Errorf("constructing domain: %w", err)
			}

			out, err := runSelect(dom, in)
			if err != nil {
				return err
			}
			encoded, err := json.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON selectInput document")
	cmd.MarkFlagRequired("input")
	return cmd
}

// selectRank is one row of the M x N_loc x 3 rank tensor spec.md §6
// describes for the select entry point.
type selectRank struct {
	SiteID    int     `json:"site_id"`
	SeedRank  float64 `json:"seed_rank"`
	ShadeRank float64 `json:"shade_rank"`
}

func runSelect(dom *domain.Domain, in selectInput) ([]selectRank, error) {
	params := scenarioparams.FromRow(in.Params)
	if err := dom.ValidateCover(in.Cover, len(in.Cover)/dom.N()); err != nil {
		return nil, err
	}

	year := in.Year
	if year < 1 {
		year = 1
	}

	state := selector.NewState(dom.N())
	rng := rand.New(rand.NewSource(params.Seed()))
	diagnostics := apierrors.NewDiagnostics()

	if err := selector.Select(dom, params, year, in.DHW, in.Wave, in.Cover, params.SeedActive(), params.ShadeActive(), state, rng, diagnostics); err != nil {
		return nil, err
	}

	out := make([]selectRank, dom.N())
	for l := 0; l < dom.N(); l++ {
		out[l] = selectRank{SiteID: l, SeedRank: state.Log.SeedRank[l], ShadeRank: state.Log.ShadeRank[l]}
	}
	return out, nil
}

func init() {
	klog.InitFlags(nil)
}
