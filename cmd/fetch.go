package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download all sources into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}
		paths, err := p.Fetch(cmd.Context())
		for _, path := range paths {
			if _, werr := fmt.Fprintln(cmd.OutOrStdout(), path); werr != nil {
				return werr
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
