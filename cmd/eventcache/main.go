package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	_ "github.com/goran-ethernal/EventCache/internal/cache"
	internalcommon "github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/config"
	"github.com/goran-ethernal/EventCache/internal/event"
	_ "github.com/goran-ethernal/EventCache/internal/fetcher"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/api"
	pkgconfig "github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/goran-ethernal/EventCache/pkg/query"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const version = "0.1.0"

var (
	configPath string

	// query flags
	queryAddress string
	queryEvent   string
	queryStop    uint64
	printLogs    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eventcache",
	Short: "EventCache - incremental cache for contract event logs",
	Long: `EventCache answers "all events of contract X up to block N" queries from a local
cache, fetching only the blocks past each key's watermark from the Ethereum node.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run contract event queries",
	Long: `Run one query given by flags, or every query listed in the configuration file.
Queries run concurrently; each is answered by the cheapest enabled engine.`,
	Example: `  eventcache query -c config.yaml \
    --address 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 \
    --event "Transfer(address indexed from, address indexed to, uint256 value)" \
    --stop 19000000`,
	RunE: runQuery,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve queries over the REST API until interrupted",
	Long: `Start the REST API (and the metrics server when enabled) and answer
GET /api/v1/events?contract=...&event=...&stop=... from the cache.
The API listens on :8080 unless the configuration has an api section.`,
	RunE: runServe,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the watermark and entry count of every cached key",
	RunE:  runStatus,
}

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available query engines",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available engines:")
		for _, name := range query.ListRegistered() {
			fmt.Printf("  - %s\n", name)
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Checkpoint the WAL and vacuum the SQLite cache database once",
	RunE:  runMaintenance,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")

	queryCmd.Flags().StringVarP(&queryAddress, "address", "a", "", "contract address")
	queryCmd.Flags().StringVarP(&queryEvent, "event", "e", "",
		`event signature, e.g. "Transfer(address indexed from, address indexed to, uint256 value)"`)
	queryCmd.Flags().Uint64VarP(&queryStop, "stop", "s", 0, "exclusive stop block (0 = current head)")
	queryCmd.Flags().BoolVar(&printLogs, "logs", false, "include the logs in the output")

	rootCmd.AddCommand(queryCmd, serveCmd, statusCmd, enginesCmd, schemaCmd, maintenanceCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type queryOutput struct {
	Address   common.Address `json:"address"`
	Event     string         `json:"event"`
	Engine    string         `json:"engine"`
	Cost      uint64         `json:"cost"`
	StopBlock uint64         `json:"stop_block"`
	LogCount  int            `json:"log_count"`
	Logs      []types.Log    `json:"logs,omitempty"`
}

func queriesFromFlags(cfg *pkgconfig.Config) ([]pkgconfig.QueryConfig, error) {
	if queryAddress == "" && queryEvent == "" {
		if len(cfg.Queries) == 0 {
			return nil, fmt.Errorf("no queries configured; pass --address and --event")
		}
		return cfg.Queries, nil
	}
	if queryAddress == "" || queryEvent == "" {
		return nil, fmt.Errorf("--address and --event must be given together")
	}

	return []pkgconfig.QueryConfig{{Address: queryAddress, Event: queryEvent, StopBlock: queryStop}}, nil
}

func toQuery(qc pkgconfig.QueryConfig) (query.ContractEventQuery, error) {
	if !common.IsHexAddress(qc.Address) {
		return query.ContractEventQuery{}, fmt.Errorf("invalid contract address: %s", qc.Address)
	}

	name, descriptor, err := event.DescriptorFor(qc.Event)
	if err != nil {
		return query.ContractEventQuery{}, err
	}

	return query.ContractEventQuery{
		Contract:        common.HexToAddress(qc.Address),
		EventName:       name,
		EventDescriptor: descriptor,
		StopBlock:       qc.StopBlock,
	}, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	specs, err := queriesFromFlags(cfg)
	if err != nil {
		return err
	}

	queries := make([]query.ContractEventQuery, len(specs))
	for i, qc := range specs {
		if queries[i], err = toQuery(qc); err != nil {
			return fmt.Errorf("query %d: %w", i, err)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
		defer cancel()
		if err := a.close(shutdownCtx); err != nil {
			a.log.Warnf("shutdown: %v", err)
		}
	}()

	outputs := make([]queryOutput, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			res, err := a.manager.Run(gctx, q)
			if err != nil {
				return fmt.Errorf("%s %s: %w", q.Contract.Hex(), q.EventName, err)
			}

			outputs[i] = queryOutput{
				Address:   q.Contract,
				Event:     q.EventName,
				Engine:    res.Engine,
				Cost:      res.Cost,
				StopBlock: res.StopBlock,
				LogCount:  len(res.Logs),
			}
			if printLogs {
				outputs[i].Logs = res.Logs
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}

// apiConfig returns the configured API settings, or enabled defaults when the
// configuration has no api section.
func apiConfig(cfg *pkgconfig.Config) *pkgconfig.APIConfig {
	if cfg.API != nil {
		return cfg.API
	}

	apiCfg := &pkgconfig.APIConfig{Enabled: true}
	apiCfg.ApplyDefaults()
	return apiCfg
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	apiCfg := apiConfig(cfg)
	if !apiCfg.Enabled {
		return fmt.Errorf("the API is disabled in %s", configPath)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
		defer cancel()
		if err := a.close(shutdownCtx); err != nil {
			a.log.Warnf("shutdown: %v", err)
		}
	}()

	server := api.NewServer(apiCfg, a.store, a.manager,
		logger.NewComponentLoggerFromConfig(internalcommon.ComponentAPI, cfg.Logging))
	return server.Start(ctx)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	s, err := openStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	statuses, err := s.ListStatus(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
	fmt.Fprintln(w, "ADDRESS\tEVENT\tWATERMARK\tENTRIES\tUPDATED")
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			st.Record.Address.Hex(),
			st.Record.EventName,
			st.Record.Watermark,
			st.Entries,
			time.Unix(st.Record.UpdatedAt, 0).UTC().Format(time.RFC3339),
		)
	}
	return w.Flush()
}

func runMaintenance(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Cache.DB.Driver != pkgconfig.DriverSQLite {
		return fmt.Errorf("maintenance is only supported for the %s driver", pkgconfig.DriverSQLite)
	}

	mcfg := cfg.Cache.Maintenance
	if mcfg == nil {
		mcfg = &pkgconfig.MaintenanceConfig{}
		mcfg.ApplyDefaults()
	}

	ctx, cancel := signalContext()
	defer cancel()

	s, err := openStore(ctx, cfg, mcfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Maintenance().RunMaintenance(ctx); err != nil {
		return err
	}

	report := s.Maintenance().GetMetrics().LastReport
	fmt.Fprintf(cmd.OutOrStdout(), "size: %d -> %d bytes, checkpointed frames: %d, took %v\n",
		report.SizeBefore, report.SizeAfter, report.CheckpointedFrames, report.Duration)
	return nil
}
