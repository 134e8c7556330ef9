package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/security"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage provider API keys",
	Long: `Store and inspect API keys for API-backed providers. Keys live in
the OS keyring when available, with an encrypted file vault fallback.
Environment variables of the form BOOKFORGE_<PROVIDER>_KEY override
stored keys.`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider> <key>",
	Short: "Store an API key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeyStore()
		if err != nil {
			return err
		}
		if err := ks.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Stored key for %s (%s)\n", args[0], security.MaskKey(args[1]))
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show <provider>",
	Short: "Show a masked API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeyStore()
		if err != nil {
			return err
		}
		key, err := ks.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], security.MaskKey(key))
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeyStore()
		if err != nil {
			return err
		}
		if err := ks.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted key for", args[0])
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysSetCmd, keysShowCmd, keysDeleteCmd)
	rootCmd.AddCommand(keysCmd)
}
