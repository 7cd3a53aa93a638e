package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apiforge/certpack/internal/augment"
	"github.com/apiforge/certpack/internal/filter"
	"github.com/apiforge/certpack/internal/pack"
	"github.com/apiforge/certpack/internal/refgraph"
)

var packageCmd = &cobra.Command{
	Use:   "package [input] [outdir]",
	Short: "Run the full pipeline and emit the three certification artifacts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config validation gates everything; it has no data dependency on
		// the document stages but must succeed before packaging.
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		reduced, err := filter.Apply(doc, cfg.Endpoints)
		if err != nil {
			return err
		}
		filter.Enhance(reduced)
		filter.StripCompositions(reduced)
		filter.KeepSuccessResponses(reduced)

		pruned, err := refgraph.Prune(reduced)
		if err != nil {
			return err
		}

		augmented, warnings, err := augment.Apply(pruned, cfg.Trigger)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		pkg, err := pack.Build(augmented, cfg)
		if err != nil {
			return err
		}
		if err := pkg.Write(args[1]); err != nil {
			return err
		}

		fmt.Printf("Certification package written to %s\n", args[1])
		for _, name := range []string{pack.DefinitionFile, pack.PropertiesFile, pack.ReadmeFile} {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
}
