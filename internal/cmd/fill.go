package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mqudsi/hddrand/internal/engine"
)

func newFillCommand() *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "fill DEVICE",
		Short: "Overwrites a device with a reproducible pseudorandom stream",
		Long: `Overwrites the device, starting at offset zero, with a cryptographically
strong pseudorandom stream until the device runs out of space.

The stream's seed is written as the first 32 bytes of the device so that a
later 'hddrand verify' can regenerate the stream without any external state.`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device := args[0]
			ensureDeviceExists(device)

			opts, err := flags.engineOptions()
			if err != nil {
				return err
			}

			ctx := log.Logger.WithContext(cmd.Context())
			result, err := engine.FillPath(ctx, device, opts...)
			if err != nil {
				log.Fatal().Err(err).Str("device", device).Msg("Fill failed")
			}

			fmt.Printf("Wrote %d bytes (%s) to %s in %d seconds\n",
				result.Bytes, humanize.IBytes(result.Bytes), device, int(result.Elapsed.Seconds()))
			return nil
		},
	}

	addTransferFlags(cmd, flags)
	return cmd
}
