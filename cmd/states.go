package main

import (
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Shootings per million residents by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}
		incidents, err := p.LoadIncidents(cmd.Context())
		if err != nil {
			return err
		}

		rep := p.States(cmd.Context(), incidents)
		con := newConsole(cmd)
		if err := con.StateTable(rep); err != nil {
			return err
		}
		return con.Quality(rep.Quality())
	},
}

func init() {
	rootCmd.AddCommand(statesCmd)
}
