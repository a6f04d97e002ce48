package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chat-session/cmd/internal/bootstrap"
	"chat-session/config"
	"chat-session/logger"
)

var (
	verbose       bool
	storeBackend  string
	llmProvider   string
	version       = "dev"
	activeApp     *bootstrap.App
	newAppForTest func(ctx context.Context) (*bootstrap.App, error)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Operate chat sessions from the terminal",
	Long: `chatctl drives the same chat service as the HTTP API.

Quick Start:
  chatctl list                         # List sessions
  chatctl create                       # Create a "New Chat" session
  chatctl ask <session-id> "hello"     # Ask within a session
  chatctl chat                         # Interactive chat in a new session`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		activeApp = app
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if activeApp != nil {
			activeApp.Close(context.Background())
			activeApp = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Override store.backend (mongo|memory)")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "provider", "", "Override llm.provider (google|echo)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func openApp(ctx context.Context) (*bootstrap.App, error) {
	if newAppForTest != nil {
		return newAppForTest(ctx)
	}

	config.InitApp()
	cfg := config.GetConfig()
	if verbose {
		cfg.Logging.Level = "debug"
	} else {
		// CLI 출력과 섞이지 않도록 경고 이상만 남긴다.
		cfg.Logging.Level = "warn"
	}
	logger.InitFromLevel(cfg.Logging.Level)

	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	return bootstrap.New(ctx, cfg)
}
