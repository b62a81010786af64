package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarmuz-dev/tarmuz/internal/migrate"
)

var servicesFile string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Content section maintenance",
}

var mergeServicesCmd = &cobra.Command{
	Use:   "merge-services",
	Short: "Merge service entries into the services section without overwriting filled fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		services := migrate.DefaultServices
		if servicesFile != "" {
			loaded, err := migrate.LoadServices(servicesFile)
			if err != nil {
				return err
			}
			services = loaded
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := migrate.MergeServices(cmd.Context(), a.Store, services)
		if err != nil {
			return err
		}

		fmt.Printf("Added: %d, Updated: %d, Total now: %d\n", res.Added, res.Updated, res.Total)
		return nil
	},
}

func init() {
	mergeServicesCmd.Flags().StringVar(&servicesFile, "file", "", "JSON array of services, defaults to the built in catalogue")
	contentCmd.AddCommand(mergeServicesCmd)
	rootCmd.AddCommand(contentCmd)
}
