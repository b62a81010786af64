package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tarmuz-dev/tarmuz/internal/probe"
)

var (
	probeURL     string
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a deployed backend answers its public endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := probe.New(probeURL, probeTimeout).Run(cmd.Context(), probe.DefaultChecks)

		failed := 0
		for _, r := range results {
			if r.OK() {
				fmt.Printf("OK   %-28s %d %s\n", r.Check.Name, r.Status, r.Duration.Round(time.Millisecond))
				continue
			}
			failed++
			fmt.Printf("FAIL %-28s %d %s\n", r.Check.Name, r.Status, r.Err)
		}

		fmt.Printf("%d/%d checks passed\n", len(results)-failed, len(results))
		if failed > 0 {
			return fmt.Errorf("%d checks failed", failed)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeURL, "url", "http://localhost:3000", "backend base URL")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "per request timeout")
	rootCmd.AddCommand(probeCmd)
}
