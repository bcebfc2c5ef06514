package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppopth/mceliece/goppa"
	"github.com/ppopth/mceliece/random"
	"github.com/spf13/cobra"
)

type codeFlags struct {
	params      goppa.Params
	workers     int
	maxAttempts int
}

func (f *codeFlags) register(cmd *cobra.Command) {
	def := goppa.DefaultParams()
	cmd.Flags().IntVar(&f.params.M, "m", def.M, "Extension degree; the code length is 2^m")
	cmd.Flags().IntVar(&f.params.T, "t", def.T, "Degree of the Goppa polynomial (errors corrected)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel systematic-form attempts (0 = one per CPU)")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", goppa.DefaultMaxAttempts, "Systematic-form attempt budget")
}

// generate draws a code from src. Callers that need more randomness keep
// drawing from the same src so a seeded run never replays the key stream.
func (f *codeFlags) generate(ctx context.Context, src random.Source) (*goppa.Code, time.Duration, error) {
	start := time.Now()
	code, err := goppa.Generate(ctx, f.params, src,
		goppa.WithWorkers(f.workers),
		goppa.WithMaxAttempts(f.maxAttempts))
	return code, time.Since(start), err
}

func newKeygenCmd() *cobra.Command {
	var flags codeFlags
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a Goppa code and print its parameters and key material sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source()
			if err != nil {
				return err
			}
			code, elapsed, err := flags.generate(cmd.Context(), src)
			if err != nil {
				return err
			}
			sys := code.Systematic
			fmt.Printf("Generated Goppa code %s in %v\n", code.Params, elapsed)
			fmt.Printf("  Field: %s\n", code.Field)
			fmt.Printf("  Field encoding: %s\n", hex.EncodeToString(code.Field.Bytes()))
			fmt.Printf("  Goppa polynomial: %s\n", hex.EncodeToString(code.Goppa.Bytes()))
			fmt.Printf("  Check matrix: %dx%d, %d bytes\n", code.H.Rows(), code.H.Cols(), len(code.H.Bytes()))
			fmt.Printf("  Systematic block M: %dx%d, %d bytes\n", sys.M.Rows(), sys.M.Cols(), len(sys.M.Bytes()))
			fmt.Printf("  Scrambler S: %d bytes, permutation P: %d bytes\n", len(sys.S.Bytes()), len(sys.P.Bytes()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var (
		flags  codeFlags
		trials int
	)
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode random weight-t error vectors from their syndromes",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source()
			if err != nil {
				return err
			}
			code, _, err := flags.generate(cmd.Context(), src)
			if err != nil {
				return err
			}
			failures := 0
			var total time.Duration
			for i := 0; i < trials; i++ {
				e, err := code.RandomError(src)
				if err != nil {
					return err
				}
				s, err := code.Syndrome(e)
				if err != nil {
					return err
				}
				start := time.Now()
				got, err := code.Decode(s)
				total += time.Since(start)
				if err != nil {
					return err
				}
				if !got.Equal(e) {
					failures++
					log.Warnf("trial %d: decoded error vector differs", i)
				}
			}
			fmt.Printf("Decoded %d/%d error vectors of weight %d for %s\n", trials-failures, trials, code.Params.T, code.Params)
			if trials > 0 {
				fmt.Printf("  Average decode time: %v\n", total/time.Duration(trials))
			}
			if failures > 0 {
				return fmt.Errorf("%d decoding failures", failures)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&trials, "trials", 10, "Number of random error vectors")
	return cmd
}
