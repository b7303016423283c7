package main

import (
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/config"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/services"

	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var (
		start   string
		hours   float64
		miles   float64
		cycle   float64
		profile string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a trip from its driving hours and distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := parseStart(start)
			if err != nil {
				return err
			}

			rules, err := config.LoadHOSRules(profile)
			if err != nil {
				return err
			}

			result, err := services.SimulateTrip(domain.TripPlan{
				StartTime:             startTime,
				TotalDrivingHours:     hours,
				TotalDistanceMiles:    miles,
				InitialCycleUsedHours: cycle,
			}, rules)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.FromSimulation(result))
		},
	}

	f := cmd.Flags()
	f.StringVar(&start, "start", "", "trip start time (RFC 3339, default now)")
	f.Float64Var(&hours, "hours", 0, "total driving hours")
	f.Float64Var(&miles, "miles", 0, "total distance in miles")
	f.Float64Var(&cycle, "cycle", 0, "hours already used in the 70-hour cycle")
	f.StringVar(&profile, "profile", config.Get("HOS_PROFILE", ""), "YAML rules profile")
	_ = cmd.MarkFlagRequired("hours")
	_ = cmd.MarkFlagRequired("miles")

	return cmd
}
