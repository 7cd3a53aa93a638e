package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiforge/certpack/internal/filter"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints [input]",
	Short: "List every endpoint in an API description, in allow-list form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Println("Available endpoints:")
		for _, ep := range filter.ListEndpoints(doc) {
			fmt.Printf("  %q,\n", ep)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(endpointsCmd)
}
