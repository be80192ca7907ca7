package main

import (
	"fmt"

	"github.com/01moynul/innowood/internal/auth"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const passwordFlag = "password"

func newHashPasswordCommand() *cobra.Command {
	hashFlags := map[string]cobraflags.Flag{
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Admin password to hash (required)",
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := hashFlags[passwordFlag].GetString()
			if password == "" {
				return fmt.Errorf("password is required (use --password flag)")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cobraflags.RegisterMap(hashCmd, hashFlags)
	return hashCmd
}
