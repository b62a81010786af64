package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tarmuz-dev/tarmuz/internal/migrate"
)

var (
	pushSrc     string
	pushOut     string
	rewriteMap  string
	auditMarker string
	auditJSON   bool
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Move stored images to the asset store",
}

var assetsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a local uploads tree and write the path to URL mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushSrc == "" {
			return fmt.Errorf("--src is required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		store, err := a.AssetStore(cmd.Context())
		if err != nil {
			return err
		}

		res, err := migrate.Push(cmd.Context(), store, pushSrc, a.Config.Assets.BaseFolder, a.Logger)
		if err != nil {
			return err
		}

		if err := res.Mapping.Save(pushOut); err != nil {
			return fmt.Errorf("writing mapping: %w", err)
		}

		fmt.Printf("Found %d files, uploaded %d, failed %d\n", res.Found, res.Uploaded, res.Failed)
		fmt.Printf("Mapping written to %s\n", pushOut)

		if res.Failed > 0 {
			return fmt.Errorf("%d files failed to upload", res.Failed)
		}
		return nil
	},
}

var assetsRewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite stored local image paths using a mapping file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rewriteMap == "" {
			return fmt.Errorf("--map is required")
		}

		mapping, err := migrate.LoadMapping(rewriteMap)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		a.Logger.Info("loaded mapping", "entries", len(mapping))

		report, err := migrate.NewReconciler(a.Store, a.Logger).Run(cmd.Context(), mapping)
		if err != nil {
			return err
		}

		for _, name := range report.Names() {
			c := report.Collections[name]
			fmt.Printf("%-10s inspected=%d changed=%d unchanged=%d failed=%d\n",
				name, c.Inspected, c.Changed, c.Unchanged, c.Failed)
		}

		if n := report.Failed(); n > 0 {
			return fmt.Errorf("%d records failed to update", n)
		}
		return nil
	},
}

var assetsAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List image references that are not asset store URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		findings, err := migrate.Audit(cmd.Context(), a.Store, auditMarker)
		if err != nil {
			return err
		}

		if auditJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(findings)
		}

		for _, f := range findings {
			fmt.Printf("%s #%d %s: %s (%s)\n", f.Collection, f.RecordID, f.Field, f.Value, f.Reason)
		}
		fmt.Printf("%d findings\n", len(findings))
		return nil
	},
}

func init() {
	assetsPushCmd.Flags().StringVar(&pushSrc, "src", "", "local uploads directory")
	assetsPushCmd.Flags().StringVar(&pushOut, "out", "asset-mapping.json", "mapping output file")
	assetsRewriteCmd.Flags().StringVar(&rewriteMap, "map", "", "mapping file written by assets push")
	assetsAuditCmd.Flags().StringVar(&auditMarker, "stale", "", "flag URLs containing this version marker")
	assetsAuditCmd.Flags().BoolVar(&auditJSON, "json", false, "print findings as JSON")

	assetsCmd.AddCommand(assetsPushCmd, assetsRewriteCmd, assetsAuditCmd)
	rootCmd.AddCommand(assetsCmd)
}
