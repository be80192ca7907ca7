package main

import (
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const envFileFlag = "env-file"

// envFileFlags builds a fresh flag map per command so each command binds its own value.
func envFileFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: ".env",
			Usage: "Path to a .env file loaded before reading the environment",
		},
	}
}

func newRootCommand() *cobra.Command {
	rootFlags := envFileFlags()
	rootCmd := &cobra.Command{
		Use:   "innowood",
		Short: "Innowood storefront and admin back office",
		Long: `Innowood serves the public keychain storefront and the admin back office.

Available commands:
  serve          - Run the HTTP server (default)
  migrate        - Create the database schema
  hash-password  - Print a bcrypt hash for ADMIN_PASSWORD_HASH`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rootFlags[envFileFlag].GetString())
		},
	}

	cobraflags.RegisterMap(rootCmd, rootFlags)

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newHashPasswordCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
