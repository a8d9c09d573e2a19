package cmd

import (
	"fmt"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/lexicons"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows project root, lexicon source, DB path, socket path, and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	sockPath := socket.SocketPath(root)

	lexSource := app.ResolveLexiconDir(root, lexiconDir)
	if lexSource == "" {
		lexSource = "built-in (" + lexicons.Dir + ")"
	}

	client := socket.NewClient(sockPath)
	daemonStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if client.Ping() {
		daemonStatus = fmt.Sprintf("%s✓ running%s", colorGreen, colorReset)
	}

	fmt.Printf("%s⚡ lexmatch config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:       %s\n", root)
	fmt.Printf("  Lexicons:   %s\n", lexSource)
	fmt.Printf("  DB:         %s\n", paths.DB)
	fmt.Printf("  Log:        %s\n", paths.DaemonLog)
	fmt.Printf("  Socket:     %s\n", sockPath)
	fmt.Printf("  Daemon:     %s\n", daemonStatus)
	return nil
}
