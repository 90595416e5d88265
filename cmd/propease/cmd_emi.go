package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

var (
	emiPrincipal float64
	emiRate      float64
	emiYears     int
)

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Estimate the monthly EMI for a home loan",
	RunE:  runEMI,
}

func init() {
	emiCmd.Flags().Float64Var(&emiPrincipal, "principal", 0, "loan amount")
	emiCmd.Flags().Float64Var(&emiRate, "rate", 0, "annual interest rate in percent")
	emiCmd.Flags().IntVar(&emiYears, "years", 0, "loan tenure in years")
	emiCmd.MarkFlagRequired("principal")
	emiCmd.MarkFlagRequired("rate")
	emiCmd.MarkFlagRequired("years")

	rootCmd.AddCommand(emiCmd)
}

func runEMI(cmd *cobra.Command, args []string) error {
	emi, total, interest, err := calculateEMI(emiPrincipal, emiRate, emiYears)
	if err != nil {
		return err
	}

	fmt.Printf("Monthly EMI:    %.2f\n", emi)
	fmt.Printf("Total payment:  %.2f\n", total)
	fmt.Printf("Total interest: %.2f\n", interest)
	return nil
}

// calculateEMI computes the equated monthly installment for a loan at a
// fixed annual rate over the given tenure.
func calculateEMI(principal, annualRate float64, years int) (emi, total, interest float64, err error) {
	if principal <= 0 {
		return 0, 0, 0, fmt.Errorf("principal must be positive, got %g", principal)
	}
	if annualRate < 0 {
		return 0, 0, 0, fmt.Errorf("rate must not be negative, got %g", annualRate)
	}
	if years <= 0 {
		return 0, 0, 0, fmt.Errorf("tenure must be at least 1 year, got %d", years)
	}

	months := float64(years * 12)
	monthlyRate := annualRate / 12 / 100

	if monthlyRate == 0 {
		emi = principal / months
	} else {
		factor := math.Pow(1+monthlyRate, months)
		emi = principal * monthlyRate * factor / (factor - 1)
	}

	total = emi * months
	return emi, total, total - principal, nil
}
