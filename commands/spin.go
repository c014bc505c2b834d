package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stockview/viewer"
)

var spinDuration time.Duration

var spinCmd = &cobra.Command{
	Use:   "spin <stock>",
	Short: "Auto-rotate a vehicle's 360° frames for a while",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.resolver.FetchByStock(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(v.SpinImages) == 0 {
			return fmt.Errorf("vehicle %s has no 360° images", v.StockNumber)
		}

		out := cmd.OutOrStdout()
		sc := a.cfg.Spin
		params := viewer.Params{
			ThresholdPx:     sc.ThresholdPx,
			Sensitivity:     sc.Sensitivity,
			InitialVelocity: 1,
			Damping:         sc.Damping,
			VelocityFloor:   sc.VelocityFloor,
		}
		timing := viewer.Timing{
			MomentumTick:   time.Duration(sc.MomentumTickMs) * time.Millisecond,
			AutoRotateTick: time.Duration(sc.AutoRotateTickMs) * time.Millisecond,
		}
		total := len(v.SpinImages)
		sv := viewer.NewViewer(v.SpinImages, params, timing, func(i int, frame string) {
			fmt.Fprintf(out, "%3d/%d  %s\n", i+1, total, frame)
		}, a.logger)
		defer sv.Close()

		fmt.Fprintf(out, "%3d/%d  %s\n", 1, total, sv.Frame())
		sv.Dispatch(viewer.Event{Kind: viewer.ToggleAutoRotate})

		t := time.NewTimer(spinDuration)
		defer t.Stop()
		select {
		case <-cmd.Context().Done():
		case <-t.C:
		}
		return nil
	},
}

func init() {
	spinCmd.Flags().DurationVar(&spinDuration, "duration", 5*time.Second, "how long to rotate")
	rootCmd.AddCommand(spinCmd)
}
