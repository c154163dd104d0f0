package main

import (
	"context"

	"neocc-backend/cmd/neocc-cli/commands"
	"neocc-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "neocc-cli")
	if err == nil {
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)
	}
	telemetry.InitSlog(false)

	commands.ExecuteContext(ctx)
}
