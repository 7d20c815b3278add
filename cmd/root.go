package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/linksim/linksim/sim"
	"github.com/linksim/linksim/sim/trace"
	"github.com/linksim/linksim/sim/workload"
)

var (
	// CLI flags for the run command
	inputPath         string // Input document path
	strategyName      string // Scheduling strategy name
	simulationHorizon int64  // Max ticks to simulate (0 = until finished)
	configPath        string // Optional YAML run config
	traceLevel        string // Decision trace level
	resultsPath       string // Optional JSON metrics output file
	logLevel          string // Log verbosity level
	showQueues        bool   // Print final pending/active/completed queues
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "linksim",
	Short: "Bit-serial link scheduling simulator",
}

// runCmd executes one simulation using parameters from CLI flags and an optional config file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the link simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cfg.Input == "" {
			logrus.Fatalf("Input document not provided; use --input or set input in --config")
		}

		logrus.Infof("Starting simulation: input=%s, strategy=%s, horizon=%d, trace=%s",
			cfg.Input, cfg.Strategy, cfg.Horizon, cfg.Trace)
		startTime := time.Now()

		if err := runSimulation(cfg, os.Stdout, showQueues); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// resolveRunConfig loads --config when given, then applies explicitly set flags on top.
// Flags left at their defaults never override values from the file.
func resolveRunConfig(cmd *cobra.Command) (*sim.RunConfig, error) {
	cfg := &sim.RunConfig{}
	if configPath != "" {
		loaded, err := sim.LoadRunConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("input") || cfg.Input == "" {
		cfg.Input = inputPath
	}
	if flags.Changed("strategy") || cfg.Strategy == "" {
		cfg.Strategy = strategyName
	}
	if flags.Changed("horizon") {
		cfg.Horizon = simulationHorizon
	}
	if flags.Changed("trace") || cfg.Trace == "" {
		cfg.Trace = traceLevel
	}
	if flags.Changed("results-path") || cfg.ResultsPath == "" {
		cfg.ResultsPath = resultsPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}
	return cfg, nil
}

// runSimulation parses the input, runs it under the configured strategy and
// writes the report to w.
func runSimulation(cfg *sim.RunConfig, w io.Writer, queues bool) error {
	in, err := workload.ParseInputFile(cfg.Input)
	if err != nil {
		return err
	}
	s, err := sim.NewSimulator(in, sim.NewStrategy(cfg.Strategy, in.NumFlows))
	if err != nil {
		return err
	}

	var st *trace.SimulationTrace
	if trace.TraceLevel(cfg.Trace) == trace.TraceLevelDecisions {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		s.SetTrace(st)
	}

	s.Run(cfg.Horizon)

	m := s.Metrics()
	m.Print(w)
	sim.PrintStrategyState(w, s.StrategyState())
	if queues {
		printQueues(w, s.Snapshot())
	}
	if st != nil {
		printTraceSummary(w, trace.Summarize(st))
	}
	if cfg.ResultsPath != "" {
		if err := m.SaveResults(cfg.ResultsPath); err != nil {
			return err
		}
	}
	return nil
}

func printQueues(w io.Writer, snap sim.StateSnapshot) {
	sections := []struct {
		title   string
		packets []sim.Packet
	}{
		{"Pending", snap.Pending},
		{"Active", snap.Active},
		{"Completed", snap.Completed},
	}
	for _, sec := range sections {
		fmt.Fprintf(w, "=== %s (%d) ===\n", sec.title, len(sec.packets))
		for _, p := range sec.packets {
			if p.Completed {
				fmt.Fprintf(w, "%s completed at %d\n", p, p.CompletionTime)
				continue
			}
			fmt.Fprintln(w, p)
		}
	}
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Ticks                : %d (busy %d, idle %d)\n", ts.TotalTicks, ts.BusyTicks, ts.IdleTicks)
	fmt.Fprintf(w, "Utilization          : %.4f\n", ts.Utilization())
	fmt.Fprintf(w, "Packet switches      : %d\n", ts.PacketSwitches)
	flows := make([]int, 0, len(ts.BitsPerFlow))
	for flow := range ts.BitsPerFlow {
		flows = append(flows, flow)
	}
	sort.Ints(flows)
	for _, flow := range flows {
		fmt.Fprintf(w, "Flow %-15d : %d bits\n", flow, ts.BitsPerFlow[flow])
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Path to the input document")
	runCmd.Flags().StringVar(&strategyName, "strategy", "fifo", fmt.Sprintf("Scheduling strategy (%v)", sim.StrategyNames()))
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", 0, "Max ticks to simulate (0 = until every packet is sent)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "File to save metrics as JSON")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVar(&showQueues, "show-queues", false, "Print the final pending, active and completed queues")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
