package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"neocc-backend/lib/configutil"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/restyutil"
	"neocc-backend/lib/scrapers/neocc"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseURL           string  `json:"base_url"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Database          string  `json:"database"`
	// when set, raw HTTP request/response dumps are written here
	DebugHTTPDir string `json:"debug_http_dir"`
}

var rootCmd = &cobra.Command{
	Use:   "neocc-cli",
	Short: "neocc-cli queries near-Earth object data from the ESA NEOCC portal.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

// readConfig loads neocc.json5 if one exists up the tree, otherwise
// defaults apply.
func readConfig() Config {
	cfg, err := configutil.ReadRecursively[Config]("neocc.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "neocc.db"
	}
	return cfg
}

func createClient(cfg Config) *neocc.Client {
	if cfg.DebugHTTPDir != "" {
		neocc.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(cfg.DebugHTTPDir))
	}
	client, err := neocc.NewClient(neocc.ClientOptions{
		BaseURL:           cfg.BaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		fatal("failed to initialize portal client", err)
	}
	return client
}

func renderTable(t *neotable.Table) {
	t.Render(os.Stdout)
	for _, warning := range t.Warnings {
		slog.Warn(warning)
	}
}
