package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// BenchmarkResult stores timing data for code generation and decoding.
type BenchmarkResult struct {
	M          int           `json:"m"`
	T          int           `json:"t"`
	N          int           `json:"n"`
	K          int           `json:"k"`
	Iterations int           `json:"iterations"`
	Generate   time.Duration `json:"generate_ns"` // Average time for goppa.Generate
	Syndrome   time.Duration `json:"syndrome_ns"` // Average time for Code.Syndrome
	Decode     time.Duration `json:"decode_ns"`   // Average time for Code.Decode
}

func newBenchCmd() *cobra.Command {
	var (
		flags      codeFlags
		iterations int
		output     string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark code generation and decoding and write JSON results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations <= 0 {
				return fmt.Errorf("iterations must be positive, got %d", iterations)
			}
			src, err := source()
			if err != nil {
				return err
			}
			result := BenchmarkResult{
				M:          flags.params.M,
				T:          flags.params.T,
				N:          flags.params.N(),
				K:          flags.params.K(),
				Iterations: iterations,
			}

			fmt.Print("Benchmarking Generate... ")
			var total time.Duration
			code, elapsed, err := flags.generate(cmd.Context(), src)
			if err != nil {
				return err
			}
			total += elapsed
			for i := 1; i < iterations; i++ {
				if _, elapsed, err = flags.generate(cmd.Context(), src); err != nil {
					return err
				}
				total += elapsed
			}
			result.Generate = total / time.Duration(iterations)
			fmt.Printf("%v\n", result.Generate)

			fmt.Print("Benchmarking Syndrome and Decode... ")
			var syn, dec time.Duration
			for i := 0; i < iterations; i++ {
				e, err := code.RandomError(src)
				if err != nil {
					return err
				}
				start := time.Now()
				s, err := code.Syndrome(e)
				if err != nil {
					return err
				}
				syn += time.Since(start)

				start = time.Now()
				got, err := code.Decode(s)
				if err != nil {
					return err
				}
				dec += time.Since(start)
				if !got.Equal(e) {
					return fmt.Errorf("iteration %d: decoding failed", i)
				}
			}
			result.Syndrome = syn / time.Duration(iterations)
			result.Decode = dec / time.Duration(iterations)
			fmt.Printf("%v / %v\n", result.Syndrome, result.Decode)

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal results: %w", err)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
			fmt.Printf("\nBenchmark results written to: %s\n", output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 5, "Number of iterations per benchmark")
	cmd.Flags().StringVar(&output, "output", "goppa_benchmark.json", "Output file for benchmark results")
	return cmd
}
