package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"neocc-backend/lib/schema"
	"neocc-backend/lib/snapshotstore"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	listSave   *bool
	listCached *bool
	listDb     *string
)

func init() {
	listSave = listCmd.Flags().Bool("save", false, "Store the fetched list as a snapshot in the local database.")
	listCached = listCmd.Flags().Bool("cached", false, "Show the latest stored snapshot instead of fetching.")
	listDb = listCmd.Flags().String("db", "", "The snapshot database, overrides the config.")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func openStore(cfg Config) (snapshotstore.Store, func()) {
	path := cfg.Database
	if *listDb != "" {
		path = *listDb
	}
	database, err := sql.Open("sqlite", path)
	if err != nil {
		fatal("failed to open snapshot database", err)
	}
	if _, err := database.Exec(snapshotstore.Schema); err != nil {
		fatal("failed to initialize snapshot database", err)
	}
	return snapshotstore.NewStore(database), func() { database.Close() }
}

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "Fetches and renders one of the portal's catalog lists.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		category := schema.Category(args[0])
		registry := schema.NewRegistry()
		spec, err := registry.Lookup(category)
		if err != nil {
			fatal("unknown category", err)
		}

		if *listCached {
			store, cleanup := openStore(cfg)
			defer cleanup()

			snap, err := store.Pull(cmd.Context(), category)
			if err != nil {
				fatal("failed to pull snapshot", err)
			}
			table, err := snap.Table(spec)
			if err != nil {
				fatal("failed to decode snapshot", err)
			}
			slog.Info("showing stored snapshot", "category", category, "time", snap.Time)
			renderTable(table)
			return
		}

		client := createClient(cfg)
		table, err := client.QueryCatalog(cmd.Context(), category)
		if err != nil {
			fatal("failed to query catalog", err)
		}
		renderTable(table)

		if *listSave {
			store, cleanup := openStore(cfg)
			defer cleanup()

			err := store.Push(cmd.Context(), snapshotstore.Snapshot{
				Category: category,
				Time:     time.Now().UTC(),
				Record:   table.ToRecord(),
			})
			if err != nil {
				fatal("failed to store snapshot", err)
			}
			slog.Info("snapshot stored", "category", category, "rows", table.Len())
		}
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Lists the data categories this tool understands.",
	Run: func(cmd *cobra.Command, args []string) {
		registry := schema.NewRegistry()
		var names []string
		for _, category := range registry.Categories() {
			names = append(names, string(category))
		}
		fmt.Println(strings.Join(names, "\n"))
	},
}
