// Command goppa exercises the Goppa code and finite-field packages: key
// generation, decoding round trips, basis conversion and field polynomial
// selection.
package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/ppopth/mceliece/random"
	"github.com/spf13/cobra"
)

var log = logging.Logger("goppa-cli")

var (
	logLevel string
	seed     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goppa",
		Short: "Goppa code and binary field toolbox",
		Long: `Generates binary Goppa codes, decodes random error patterns with
Patterson's algorithm and converts elements between polynomial and normal
bases of GF(2^n).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.LevelFromString(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logging.SetAllLoggers(level)
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&seed, "seed", "", "Seed for deterministic randomness (empty uses the system CSPRNG)")

	rootCmd.AddCommand(
		newKeygenCmd(),
		newDecodeCmd(),
		newConvertCmd(),
		newIrreducibleCmd(),
		newBenchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// source returns the random source selected by --seed.
func source() (random.Source, error) {
	if seed == "" {
		return random.NewSystem(), nil
	}
	log.Debugf("using keyed source for seed %q", seed)
	return random.NewKeyed([]byte(seed))
}
