package commands

import (
	"log/slog"
	"time"

	"neocc-backend/lib/scrapers/neocc"

	"github.com/spf13/cobra"
)

var (
	ephObservatory *string
	ephStart       *string
	ephEnd         *string
	ephStep        *float64
	ephStepUnit    *string
)

func init() {
	ephObservatory = ephemerisCmd.Flags().String("observatory", "500", "Observatory code, 500 is geocentric.")
	ephStart = ephemerisCmd.Flags().String("start", "", "Start of the time range, e.g. 2026-08-01T00:00.")
	ephEnd = ephemerisCmd.Flags().String("end", "", "End of the time range.")
	ephStep = ephemerisCmd.Flags().Float64("step", 1, "Time step count between rows.")
	ephStepUnit = ephemerisCmd.Flags().String("step-unit", "days", "Time step unit: days, hours, minutes or seconds.")
	ephemerisCmd.MarkFlagRequired("start")
	ephemerisCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(ephemerisCmd)
}

const flagTimeLayout = "2006-01-02T15:04"

var ephemerisCmd = &cobra.Command{
	Use:   "ephemeris <designation>",
	Short: "Fetches an ephemerides table for an object over a time range.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := createClient(cfg)

		start, err := time.Parse(flagTimeLayout, *ephStart)
		if err != nil {
			fatal("bad --start value", err)
		}
		end, err := time.Parse(flagTimeLayout, *ephEnd)
		if err != nil {
			fatal("bad --end value", err)
		}

		eph, err := client.QueryEphemeris(cmd.Context(), neocc.EphemerisRequest{
			Designation: args[0],
			Observatory: *ephObservatory,
			Start:       start,
			End:         end,
			Step:        *ephStep,
			StepUnit:    *ephStepUnit,
		})
		if err != nil {
			fatal("failed to query ephemerides", err)
		}

		slog.Info("ephemerides",
			"designation", eph.Designation,
			"observatory", eph.Header.Observatory,
			"rows", eph.Table.Len(),
		)
		renderTable(eph.Table)
	},
}
