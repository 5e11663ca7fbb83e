package main

import (
	"srcomkit/cmd/srcom-cli/commands"
	"srcomkit/lib/cliutil"
	"srcomkit/lib/telemetry"
)

func main() {
	ctx := cliutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "srcom-cli")
	telemetry.InitSlog(false)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
