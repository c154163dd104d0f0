package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"neocc-backend/lib/configutil"

	"github.com/lmittmann/tint"
)

// InitSlog installs the default logger. Verbose mode keeps the stdlib text
// handler at debug level, otherwise tint renders compact colored output.
func InitSlog(verbose bool) {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		return
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

var setupTestEnvironments = map[string]bool{}

// SetupForTesting sets up telemetry in a testing environment, ensuring it
// isn't set up more than once. Missing telemetry config is fine in tests,
// spans then go to the default no-op providers.
func SetupForTesting(serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	tel, err := SetupFromEnv(context.Background(), serviceName)
	if os.IsNotExist(err) {
		return func() {}
	}
	if err != nil {
		panic(err)
	}

	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			panic(err)
		}
	}
}

// SetupFromEnv searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it is used as the config to set up
// telemetry.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}
