package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apiforge/certpack/internal/augment"
)

var augmentOutput string

var augmentCmd = &cobra.Command{
	Use:   "augment [input]",
	Short: "Attach platform trigger extensions to a cleaned API description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Trigger == nil {
			return fmt.Errorf("connector config %s has no trigger block", configPath)
		}
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		augmented, warnings, err := augment.Apply(doc, cfg.Trigger)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		output := augmentOutput
		if output == "" {
			output = args[0] // in-place, matching the single-file workflow
		}
		if err := writeDocument(augmented, output); err != nil {
			return err
		}
		fmt.Printf("Augmented %s -> %s\n", args[0], output)
		return nil
	},
}

func init() {
	augmentCmd.Flags().StringVarP(&augmentOutput, "output", "o", "", "Output path (default: update input in place)")
	rootCmd.AddCommand(augmentCmd)
}
