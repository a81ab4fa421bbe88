package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/units"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mqudsi/hddrand/internal/engine"
)

type transferFlags struct {
	chunkSizeString  string
	progressInterval time.Duration
	noProgress       bool
}

func addTransferFlags(cmd *cobra.Command, flags *transferFlags) {
	cmd.Flags().StringVarP(&flags.chunkSizeString, "chunk-size", "c", "16MiB",
		"The size of each transfer chunk. Accepts base-2 units (e.g. 8MiB).")
	cmd.Flags().DurationVar(&flags.progressInterval, "progress-interval", engine.DefaultProgressInterval,
		"How often to report transfer progress.")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false,
		"Disable periodic progress reporting.")
}

func (f *transferFlags) engineOptions() ([]engine.Option, error) {
	sizeString := f.chunkSizeString
	if sizeString != "" && sizeString[len(sizeString)-1] != 'B' {
		sizeString += "B"
	}
	parsedChunkSize, err := units.ParseBase2Bytes(sizeString)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk size: %w", err)
	}

	interval := f.progressInterval
	if f.noProgress {
		interval = 0
	}

	return []engine.Option{
		engine.WithChunkSize(int(parsedChunkSize)),
		engine.WithProgressInterval(interval),
	}, nil
}

// ensureDeviceExists stats the device path before handing it to the engine so
// that a missing path exits with its own code, matching ENOENT conventions.
func ensureDeviceExists(path string) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("device", path).Msg("Device not found")
			os.Exit(ExitNotFound)
		}
		log.Fatal().Err(err).Str("device", path).Msg("Unable to access device")
	}
}
