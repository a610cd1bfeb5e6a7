// Package main is the entry point for the mqselect service.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meridianmq/mqselect/pkg/api"
	"github.com/meridianmq/mqselect/pkg/selector"
	"github.com/meridianmq/mqselect/pkg/store"
	"github.com/meridianmq/mqselect/pkg/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mqselect",
	Short: "Message selector engine and subscription service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the subscription HTTP API",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check [selector]",
	Short: "Compile a selector and report the result",
	Long: "Compile a selector expression from the argument, or from stdin " +
		"when no argument is given, and report success or the compile error " +
		"with its position.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("mqselect version {{.Version}}\n")

	serveCmd.Flags().Int("port", 0, "HTTP server port (default 7611, env PORT)")
	serveCmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	serveCmd.Flags().String("subscriptions-dir", "", "Directory of subscription YAML files to preload (env SUBSCRIPTIONS_DIR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	port := envOrDefault("PORT", "7611")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = fmt.Sprintf("%d", v)
	}

	host := envOrDefault("HOST", "0.0.0.0")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}

	subsDir := os.Getenv("SUBSCRIPTIONS_DIR")
	if v, _ := cmd.Flags().GetString("subscriptions-dir"); v != "" {
		subsDir = v
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	st := store.New()
	server := api.New(st)

	if subsDir != "" {
		if err := server.LoadDir(subsDir); err != nil {
			log.Printf("Warning: failed to load subscriptions directory: %v", err)
		}
	} else {
		log.Printf("No --subscriptions-dir specified, starting empty")
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	return server.Listen(addr)
}

func runCheck(cmd *cobra.Command, args []string) error {
	var source string
	if len(args) == 1 {
		source = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		source = string(data)
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	sel, err := selector.CompileOrNil(source)
	if err != nil {
		var selErr *types.SelectorError
		if errors.As(err, &selErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s (position %d)\n", selErr.Message, selErr.Pos)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
		return err
	}
	if sel == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "ok (empty selector, matches everything)")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
