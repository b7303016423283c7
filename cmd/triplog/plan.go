package main

import (
	"context"
	"fmt"
	"time"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/app"
	"trip-log-service/internal/config"
	"trip-log-service/internal/services"

	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var (
		current string
		from    string
		to      string
		cycle   float64
		start   string
		save    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Route a pickup to a dropoff and simulate the trip",
		Long: `plan looks up the driving route between two addresses with the configured ` +
			`routing provider (ROUTING_PROVIDER, MAPBOX_API_KEY or ORS_API_KEY) and prints ` +
			`the planned trip. With --save the trip is also stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := parseStart(start)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			svc, err := app.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if current == "" {
				current = from
			}
			req := services.PlanTripRequest{
				CurrentLocation:       current,
				PickupLocation:        from,
				DropoffLocation:       to,
				CurrentCycleUsedHours: cycle,
				StartTime:             startTime,
			}

			if save {
				trip, err := services.PlanTrip(ctx, req, svc.Repo, svc.Provider, svc.Rules)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.FromTrip(trip))
			}

			trip, err := services.BuildTrip(ctx, req, svc.Provider, svc.Rules)
			if err != nil {
				return err
			}
			if !trip.HasPlan() {
				return fmt.Errorf("no route found from %q to %q", from, to)
			}
			return printJSON(cmd.OutOrStdout(), dto.FromTrip(trip))
		},
	}

	f := cmd.Flags()
	f.StringVar(&current, "current", "", "driver's current location (default: --from)")
	f.StringVar(&from, "from", "", "pickup address")
	f.StringVar(&to, "to", "", "dropoff address")
	f.Float64Var(&cycle, "cycle", 0, "hours already used in the 70-hour cycle")
	f.StringVar(&start, "start", "", "trip start time (RFC 3339, default now)")
	f.BoolVar(&save, "save", false, "store the planned trip")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "overall routing timeout")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
