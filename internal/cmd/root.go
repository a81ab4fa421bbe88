package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag"
)

// Exit codes used by the CLI. A mismatch gets its own code so scripts can
// tell a failing medium apart from an I/O error.
const (
	ExitFailure  = 1
	ExitNotFound = 2
	ExitMismatch = 3
)

func NewRootCommand(commit string) *cobra.Command {
	if commit == "" {
		commit = "unknown"
	}

	type LogFormat int8
	const (
		Unspecified LogFormat = iota
		Pretty
		Plain
		Json
	)

	logFormat := Unspecified
	logLevel := zerolog.InfoLevel

	cmd := &cobra.Command{
		Use:   "hddrand",
		Short: "Fills a raw device with a reproducible pseudorandom stream and verifies it back.",
		Long: `hddrand overwrites a block device with a deterministic pseudorandom stream
and can later verify that the device still holds exactly that stream, which
detects silent corruption, bad sectors, and firmware remapping.

The stream's 32-byte seed is stored as the first 32 bytes of the device, so
verification needs no state other than the device contents.`,
		Version:      commit,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logFormat == Unspecified {
				if isStdErrTerminal() {
					logFormat = Pretty
				} else {
					logFormat = Plain
				}
			}

			zerolog.SetGlobalLevel(logLevel)
			zerolog.TimeFieldFormat = time.RFC3339Nano
			switch logFormat {
			case Pretty, Plain:
				log.Logger = log.Output(zerolog.ConsoleWriter{
					Out:        os.Stderr,
					TimeFormat: "2006-01-02T15:04:05.000Z07:00", // like RFC3339Nano, but always showing three digits for the fractional seconds
					NoColor:    logFormat == Plain,
				})
			}
		},
	}

	// hide --help as a flag in the usage output
	cmd.PersistentFlags().BoolP("help", "h", false, "Print usage")
	cmd.PersistentFlags().Lookup("help").Hidden = true

	var levelIds = map[zerolog.Level][]string{
		zerolog.TraceLevel: {"trace"},
		zerolog.DebugLevel: {"debug"},
		zerolog.InfoLevel:  {"info"},
		zerolog.WarnLevel:  {"warn"},
		zerolog.ErrorLevel: {"error"},
	}

	var logFormatIds = map[LogFormat][]string{
		Unspecified: {""},
		Pretty:      {"pretty"},
		Plain:       {"plain"},
		Json:        {"json"},
	}

	cmd.PersistentFlags().Var(
		enumflag.New(&logLevel, "level", levelIds, enumflag.EnumCaseInsensitive),
		"log-level",
		"specifies logging level. Can be one of: 'trace', 'debug', 'info', 'warn', or 'error'.")

	cmd.PersistentFlags().Var(
		enumflag.New(&logFormat, "format", logFormatIds, enumflag.EnumCaseInsensitive),
		"log-format",
		"specifies logging format. Can be one of: 'pretty', 'plain', or 'json'. The default is 'pretty' unless stderr is redirected, in which case it will be 'plain'.")

	cobra.EnableCommandSorting = false

	cmd.AddCommand(newFillCommand())
	cmd.AddCommand(newVerifyCommand())

	return cmd
}

func isStdErrTerminal() bool {
	o, _ := os.Stderr.Stat()
	return (o.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}

func Execute(commit string) {
	if err := NewRootCommand(commit).Execute(); err != nil {
		os.Exit(ExitFailure)
	}
}
