package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/sarchlab/verlet/monitoring"
	"github.com/sarchlab/verlet/render/terminal"
	"github.com/sarchlab/verlet/tracing"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Draw the demo scene in the terminal, stepping in real time",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		ropeLength, _ := flags.GetInt("rope-length")
		scale, _ := flags.GetFloat64("scale")
		monitor, _ := flags.GetBool("monitor")

		if ropeLength < 1 {
			return fmt.Errorf("rope-length must be >= 1")
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}

		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		view := terminal.NewView(screen, nil, cfg.FrameRate, scale)
		s := cfg.Builder().WithFrameScheduler(view).Build()
		view.WithSource(s)

		frameTimes := tracing.NewFrameTimeTracer(nil)
		s.AcceptHook(frameTimes)

		if monitor {
			m := monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort)
			m.RegisterSimulator(s)
			m.RegisterFrameTracer(frameTimes)

			if _, err := m.StartServer(); err != nil {
				return err
			}
			defer m.StopServer()
		}

		buildScene(s, ropeLength)

		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := view.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}

		return s.Err()
	},
}

func init() {
	viewCmd.Flags().Int("rope-length", 10, "number of rope segments")
	viewCmd.Flags().Float64("scale", 3, "terminal columns per world unit")
	viewCmd.Flags().Bool("monitor", false, "serve the monitoring page while viewing")
	rootCmd.AddCommand(viewCmd)
}
