package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/verlet/datarecording"
	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/monitoring"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
	"github.com/sarchlab/verlet/tracing"
)

const runBatch = 60

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo scene headlessly for a number of ticks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		ticks, _ := flags.GetInt("ticks")
		ropeLength, _ := flags.GetInt("rope-length")
		record, _ := flags.GetBool("record")
		monitor, _ := flags.GetBool("monitor")
		open, _ := flags.GetBool("open")
		verbose, _ := flags.GetBool("verbose")

		if ticks < 0 || ropeLength < 1 {
			return fmt.Errorf("ticks must be >= 0 and rope-length >= 1")
		}

		s := cfg.Builder().
			WithFrameScheduler(timing.NewManualScheduler()).
			Build()
		gate := newRunGate(s)
		counter := tracing.NewTickCounter()
		s.AcceptHook(counter)

		if verbose {
			s.AcceptHook(tracing.NewTickLogger(log.New(os.Stderr, "", 0)))
		}

		if record || cfg.RecordPath != "" {
			recorder := cfg.NewRecorder()
			defer closeRecorder(recorder)

			s.AcceptHook(tracing.NewTickRecorder(recorder, "run"))
		}

		var m *monitoring.Monitor
		if monitor || open {
			m = monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort)
			m.RegisterSimulator(s)

			if _, err := m.StartServer(); err != nil {
				return err
			}
			defer m.StopServer()

			if open {
				if err := m.OpenInBrowser(); err != nil {
					fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
				}
			}
		}

		rope := buildScene(s, ropeLength)

		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()

		var bar *monitoring.ProgressBar
		if m != nil {
			bar = m.CreateProgressBar("run", uint64(ticks))
			defer m.CompleteProgressBar(bar)
		}

		if err := runTicks(s, gate, bar, ticks); err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), s.Stats(), counter, rope.Torn())

		return nil
	},
}

func init() {
	runCmd.Flags().Int("ticks", 600, "number of ticks to run")
	runCmd.Flags().Int("rope-length", 10, "number of rope segments")
	runCmd.Flags().Bool("record", false, "record every tick into SQLite")
	runCmd.Flags().Bool("monitor", false,
		"serve the monitoring page while running; pause holds the run between batches")
	runCmd.Flags().Bool("open", false, "open the monitoring page in a browser")
	runCmd.Flags().BoolP("verbose", "v", false, "log every tick to stderr")
	rootCmd.AddCommand(runCmd)
}

// runGate holds batches back while the simulator is stopped, so that pausing
// from the monitor pauses a headless run until it is continued.
type runGate struct {
	s       *sim.Simulator
	resumed chan struct{}
}

func newRunGate(s *sim.Simulator) *runGate {
	g := &runGate{s: s, resumed: make(chan struct{}, 1)}
	s.AcceptHook(g)

	return g
}

func (g *runGate) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sim.HookPosStateChange || ctx.Item != sim.StateRunning {
		return
	}

	select {
	case g.resumed <- struct{}{}:
	default:
	}
}

func (g *runGate) wait() {
	for g.s.State() != sim.StateRunning {
		<-g.resumed
	}
}

// runTicks steps the simulator in batches. The frame scheduler of a headless
// run never fires, so Start and Stop only open and close the gate.
func runTicks(
	s *sim.Simulator,
	gate *runGate,
	bar *monitoring.ProgressBar,
	ticks int,
) error {
	for done := 0; done < ticks; done += runBatch {
		gate.wait()

		n := min(runBatch, ticks-done)

		if bar != nil {
			bar.IncrementInProgress(uint64(n))
		}

		if err := s.RunTicks(n); err != nil {
			return err
		}

		if bar != nil {
			bar.MoveInProgressToFinished(uint64(n))
		}
	}

	return nil
}

func printSummary(
	w io.Writer,
	stats sim.Stats,
	counter *tracing.TickCounter,
	torn bool,
) {
	fmt.Fprintf(w, "ticks: %d\n", stats.Ticks)
	fmt.Fprintf(w, "simulated time: %s\n", stats.SimTime)
	fmt.Fprintf(w, "particles: %d\n", stats.Particles)
	fmt.Fprintf(w, "constraints: %d\n", stats.Constraints)
	fmt.Fprintf(w, "ticks observed: %d\n",
		counter.Count(sim.HookPosAfterTick.Name))
	fmt.Fprintf(w, "rope torn: %t\n", torn)
}

func closeRecorder(r datarecording.DataRecorder) {
	if err := r.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close recorder: %v\n", err)
	}
}
