package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "usermgr",
		Short:         "Interactive user and role management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "read USERMGR_* variables from this file when present")

	seedCmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Add users from a YAML file, skipping existing logins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the configured directory store is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(seedCmd, checkCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "usermgr:", err)
		os.Exit(1)
	}
}
