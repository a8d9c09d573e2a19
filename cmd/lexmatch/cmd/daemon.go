package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/spf13/cobra"
)

var (
	daemonPolicy string
	daemonWatch  bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the lexmatch daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the foreground",
	Long: "Loads the lexicons once, serves match requests on a Unix socket and\n" +
		"reloads when a lexicon file changes. Logs go to stderr and .lexmatch/log/daemon.log.",
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload lexicons in the running daemon",
	RunE:  runDaemonReload,
}

func init() {
	daemonStartCmd.Flags().StringVar(&daemonPolicy, "policy", "error", "Ambiguous adjoin policy: error, first, longest")
	daemonStartCmd.Flags().BoolVar(&daemonWatch, "watch", true, "Reload when lexicon files change")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonReloadCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)

	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	policy, err := hierarchy.ParsePolicy(daemonPolicy)
	if err != nil {
		return err
	}

	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create %s: %w", paths.Root, err)
	}
	logFile, err := os.OpenFile(paths.DaemonLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()
	logger := app.NewLogger(io.MultiWriter(os.Stderr, logFile), verbose)

	a, err := app.New(app.Config{
		ProjectRoot: root,
		LexiconDir:  lexiconDir,
		SocketPath:  sockPath,
		Policy:      policy,
		Watch:       daemonWatch,
		Logger:      logger,
	})
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("init: %s", diagnoseDBLock(root))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}
	if err := os.WriteFile(paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		logger.Warn("write pid file", "error", err)
	}
	defer paths.CleanEphemeral()

	fmt.Printf("⚡ lexmatch daemon started at %s\n", sockPath)

	// Exit on a signal or a remote `daemon stop`.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return err
	}

	fmt.Println("⚡ daemon stopped")
	return nil
}

func runDaemonReload(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}
	res, err := client.Reload()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ reloaded %d axes, %d nodes │ %dms\n", res.Axes, res.Nodes, res.ElapsedMs)
	return nil
}
