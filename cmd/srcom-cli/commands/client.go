package commands

import (
	"os"
	"srcomkit/lib/cliutil"
	"srcomkit/lib/configutil"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/runs"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Config is read from config.json5 (with config.local.json5 overrides)
// in the working directory. Session and CSRF token come from the
// browser's devtools; reads work without them.
type Config struct {
	BaseURL   string `json:"base_url"`
	Session   string `json:"session"`
	CSRFToken string `json:"csrf_token"`
}

func newOrchestrator() runs.Orchestrator {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		cliutil.Fatal("failed to read config", err)
	}

	client, err := srcom.NewClient(srcom.ClientOptions{
		BaseURL:   config.BaseURL,
		Session:   config.Session,
		CSRFToken: config.CSRFToken,
	})
	if err != nil {
		cliutil.Fatal("failed to initialize client", err)
	}
	return runs.New(client)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
