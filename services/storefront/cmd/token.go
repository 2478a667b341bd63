package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"StorefrontPlatform/services/storefront/internal/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Работа с bearer токенами",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <email>",
	Short: "Выпустить токен для email текущим секретом",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}

		manager, err := jwt.NewManager(cfg.JWT.Secret, cfg.TokenLifetime())
		if err != nil {
			return err
		}
		token, err := manager.Issue(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires in %s\n", jwt.HumanLifetime(manager.Lifetime()))
		return nil
	},
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Проверить токен и вывести subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}

		manager, err := jwt.NewManager(cfg.JWT.Secret, cfg.TokenLifetime())
		if err != nil {
			return err
		}
		subject, err := manager.SubjectOf(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), subject)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenInspectCmd)
}
