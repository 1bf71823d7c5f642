package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/killallgit/slate/pkg/config"
	"github.com/killallgit/slate/pkg/headless"
	"github.com/killallgit/slate/pkg/logger"
	"github.com/killallgit/slate/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Streaming chat client for data agents",
	Long: `Slate is a terminal chat client for streaming data agents. It folds
the agent's event stream into a live transcript with text, reasoning,
tool activity, charts, and tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		prompt := viper.GetString("prompt")
		if prompt != "" {
			if err := headless.RunHeadless(ctx, prompt); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := tui.StartApp(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.slate/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "execute a single prompt without entering the TUI")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().StringP("model", "m", "", "model to request from the agent")
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.PersistentFlags().String("host", "", "agent service host")
	viper.BindPFlag("agent.host", rootCmd.PersistentFlags().Lookup("host"))

	rootCmd.PersistentFlags().String("token", "", "bearer token for the agent service")
	viper.BindPFlag("agent.token", rootCmd.PersistentFlags().Lookup("token"))
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
