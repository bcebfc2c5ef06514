package main

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2m"
	"github.com/ppopth/mceliece/gf2n"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		degree int
		trials int
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Round-trip random elements between polynomial and normal bases of GF(2^n)",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source()
			if err != nil {
				return err
			}
			pf, err := gf2n.NewPolynomialField(degree, gf2n.WithSource(src))
			if err != nil {
				return err
			}
			onb, err := gf2n.NewONBField(degree, gf2n.WithSource(src))
			if err != nil {
				return err
			}
			fmt.Printf("Converting between %s and %s\n", pf, onb)
			for i := 0; i < trials; i++ {
				a := pf.Random(src)
				b, err := gf2n.Convert(a, onb)
				if err != nil {
					return err
				}
				back, err := gf2n.Convert(b, pf)
				if err != nil {
					return err
				}
				if !back.Equal(a) {
					return fmt.Errorf("round trip of %s returned %s", a, back)
				}
				fmt.Printf("  %s -> %s\n", a, b)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&degree, "degree", 11, "Field degree n; must admit a type 1 or 2 normal basis")
	cmd.Flags().IntVar(&trials, "trials", 4, "Number of random elements")
	return cmd
}

func newIrreducibleCmd() *cobra.Command {
	var m, n int
	cmd := &cobra.Command{
		Use:   "irreducible",
		Short: "Print the field polynomials chosen for GF(2^m) and GF(2^n)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if m > 0 {
				f, err := gf2m.NewField(m)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", f)
			}
			if n > 0 {
				src, err := source()
				if err != nil {
					return err
				}
				pf, err := gf2n.NewPolynomialField(n, gf2n.WithSource(src))
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", pf)
				onb, err := gf2n.NewONBField(n)
				if err != nil {
					fmt.Printf("GF(2^%d): %v\n", n, err)
					return nil
				}
				fmt.Printf("%s, minimal polynomial %s\n", onb, onb.FieldPolynomial())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&m, "m", 11, "Degree of the small field GF(2^m) (0 to skip)")
	cmd.Flags().IntVar(&n, "n", 163, "Degree of the large field GF(2^n) (0 to skip)")
	return cmd
}
