package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fcjr/acetylene/internal/device"
)

var devicesCmd = &cobra.Command{
	Use:     "devices",
	Aliases: []string{"list"},
	Short:   "List removable devices that can be burned to",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := detectDevices(cmd.Context(), app.settings, app.logger)
		if errors.Is(err, device.ErrUnsupported) {
			fmt.Printf("Device detection is not supported on %s.\n", runtime.GOOS)
			fmt.Printf("Pass a device path to 'acetylene burn --device' instead.\n")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to detect devices: %w", err)
		}

		if len(devices) == 0 {
			fmt.Printf("No removable storage devices found.\n")
			return nil
		}

		displayDevices(devices)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
