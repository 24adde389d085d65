package commands

import (
	"fmt"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Quarry web workbench",
		Long: `Start a local web server providing the interactive workbench.

The workbench provides:
- Navigation tree of the database's schemas and tables
- Tab strip synchronized with the tree selection
- Staged imports that resolve as the database confirms them`,
		Example: `  # Start on default port
  quarry serve

  # Start on custom port
  quarry serve --port 3000

  # Start without auto-opening browser
  quarry serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg

	port := cfg.Server.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	serverCfg := ui.Config{
		Engine:        cmdCtx.Engine,
		State:         cmdCtx.State,
		ImportStore:   cmdCtx.Imports,
		Port:          port,
		ImportsDir:    cfg.ImportsDir,
		SessionSecret: cfg.Server.SessionSecret,
		Dev:           cfg.Server.Dev,
		Logger:        cmdCtx.Logger,
	}

	server := ui.NewServer(serverCfg)

	if !opts.NoBrowser {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting workbench on http://localhost:%d\n", port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
