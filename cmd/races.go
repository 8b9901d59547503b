package main

import (
	"github.com/spf13/cobra"
)

var racesCmd = &cobra.Command{
	Use:   "races",
	Short: "Cross-tab race by signs of mental illness",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}
		incidents, err := p.LoadIncidents(cmd.Context())
		if err != nil {
			return err
		}

		rep := p.Races(incidents)
		con := newConsole(cmd)
		if err := con.RaceTable(rep.Rows); err != nil {
			return err
		}
		return con.TopRace(rep, p.Locale().TopRace)
	},
}

func init() {
	rootCmd.AddCommand(racesCmd)
}
