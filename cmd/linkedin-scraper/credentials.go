package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/linkedin-people-scraper/internal/secrets"
)

func (a *app) credentialsCmd() *cobra.Command {
	var account string
	acct := func() string {
		if account != "" {
			return account
		}
		return a.cfg.Credentials.Account()
	}

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the LinkedIn password in the OS keychain",
	}
	cmd.PersistentFlags().StringVar(&account, "account", "", "keychain account (default credentials.keyring_account or username)")

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Read the password from stdin and store it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password from stdin: %w", err)
			}
			if err := secrets.SetPassword(acct(), strings.TrimRight(line, "\r\n")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored password for %s\n", acct())
			return nil
		},
	}, &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := secrets.DeletePassword(acct()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted password for %s\n", acct())
			return nil
		},
	})
	return cmd
}
