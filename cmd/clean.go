package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiforge/certpack/internal/filter"
	"github.com/apiforge/certpack/internal/refgraph"
)

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean [input]",
	Short: "Filter an API description to the configured endpoints and prune unreachable schemas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		output := cleanOutput
		if output == "" {
			output = derivedOutput(args[0], "cleaned")
		}
		if err := writeDocument(pruned, output); err != nil {
			return err
		}

		fmt.Printf("Cleaned %s -> %s\n", args[0], output)
		fmt.Printf("Kept %d operations, %d schema definitions (%d pruned)\n",
			len(pruned.Operations()), len(pruned.Definitions), len(doc.Definitions)-len(pruned.Definitions))
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "Output path (default: <input>-cleaned.json)")
	rootCmd.AddCommand(cleanCmd)
}
