package commands

import (
	"fmt"
	"log/slog"

	"neocc-backend/lib/resolve"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/scrapers/neocc"

	"github.com/spf13/cobra"
)

var (
	objectElements *string
	objectEpoch    *string
	objectResolve  *bool
)

func init() {
	objectElements = objectCmd.Flags().String("elements", "keplerian", "Orbit element set: keplerian or equinoctial.")
	objectEpoch = objectCmd.Flags().String("epoch", "present", "Orbit reference epoch: present or middle.")
	objectResolve = objectCmd.Flags().Bool("resolve", false, "Resolve the designation against the NEA list before querying.")
	rootCmd.AddCommand(objectCmd)
}

var objectCmd = &cobra.Command{
	Use:   "object <designation> <tab>",
	Short: "Fetches one data tab of a near-Earth object.",
	Long: "Fetches one data tab of a near-Earth object. Valid tabs are " +
		"physical_properties, summary, close_approaches, impacts, " +
		"observations and orbit_properties.",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := createClient(cfg)

		designation := args[0]
		tab := schema.Category(args[1])

		if *objectResolve {
			neaList, err := client.QueryCatalog(cmd.Context(), schema.NEAList)
			if err != nil {
				fatal("failed to fetch the NEA list", err)
			}
			resolver, err := resolve.FromTable(neaList, "Object Name")
			if err != nil {
				fatal("failed to build resolver", err)
			}
			match, err := resolver.Resolve(designation)
			if err != nil {
				fatal("failed to resolve designation", err)
			}
			if match.Similarity < 1 {
				slog.Info("resolved designation",
					"query", designation,
					"match", match.Designation,
					"similarity", match.Similarity,
				)
			}
			designation = match.Designation
		}

		var record *neocc.ObjectRecord
		var err error
		if tab == schema.OrbitProperties {
			record, err = client.QueryOrbitProperties(
				cmd.Context(), designation,
				neocc.OrbitElements(*objectElements),
				neocc.OrbitEpoch(*objectEpoch),
			)
		} else {
			record, err = client.QueryObject(cmd.Context(), designation, tab)
		}
		if err != nil {
			fatal("failed to query object", err)
		}

		renderTable(record.Table())
		for _, name := range []string{"sources", "roving", "satellite", "radar"} {
			if t, ok := record.Tables[name]; ok {
				fmt.Printf("%s:\n", name)
				renderTable(t)
			}
		}
		if record.Footer != nil {
			fmt.Println("observation metadata:")
			renderTable(record.Footer.Table())
		}
		if record.ObsHeader != nil {
			fmt.Println("error model:")
			renderTable(record.ObsHeader.Table())
		}
	},
}
