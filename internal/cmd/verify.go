package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mqudsi/hddrand/internal/engine"
)

func newVerifyCommand() *cobra.Command {
	flags := &transferFlags{}
	cmd := &cobra.Command{
		Use:   "verify DEVICE",
		Short: "Verifies that a device still holds the stream a fill wrote",
		Long: `Reads the device back and checks, byte for byte, that it still holds the
pseudorandom stream written by 'hddrand fill'. The stream's seed is recovered
from the first 32 bytes of the device itself.

A content mismatch is reported with its offset and both byte values and exits
with code 3; I/O failures exit with code 1.`,
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
			result, mismatch, err := engine.VerifyPath(ctx, device, opts...)
			if err != nil {
				log.Fatal().Err(err).Str("device", device).Msg("Verify failed")
			}

			if mismatch != nil {
				fmt.Printf("Verified %d bytes (%s) of %s in %d seconds before a mismatch at offset %#x (expected %#02x, found %#02x)\n",
					result.Bytes, humanize.IBytes(result.Bytes), device, int(result.Elapsed.Seconds()),
					mismatch.Offset, mismatch.Expected, mismatch.Found)
				os.Exit(ExitMismatch)
			}

			fmt.Printf("Verified %d bytes (%s) from %s in %d seconds\n",
				result.Bytes, humanize.IBytes(result.Bytes), device, int(result.Elapsed.Seconds()))
			return nil
		},
	}

	addTransferFlags(cmd, flags)
	return cmd
}
