package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wallet.com/internal/infrastructure/crypto"
	"wallet.com/internal/infrastructure/logger"
)

var encryptKeyCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "encrypt-key",
	Short: "Encrypt a WIF private key into a NEP-2 key.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		wif, err := promptSecret("Enter WIF private key: ")
		if err != nil {
			return err
		}
		defer clear(wif)

		priv, err := crypto.PrivateKeyFromWIF(string(wif))
		if err != nil {
			return err
		}
		defer clear(priv)

		passphrase, err := promptSecret("Enter passphrase: ")
		if err != nil {
			return err
		}
		defer clear(passphrase)

		confirm, err := promptSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}
		defer clear(confirm)
		if string(passphrase) != string(confirm) {
			return errors.New("passphrases do not match")
		}

		codec := crypto.NewNEP2(crypto.DefaultScryptParams(), logger.NewLoggerWithLevel(os.Stderr, "error"))
		encrypted, err := codec.Encrypt(priv, string(passphrase))
		if err != nil {
			return err
		}
		address, err := crypto.AddressFromPrivateKey(priv)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\nEncrypted key: %s\n", address, encrypted)
		return nil
	},
}

var checkKeyCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "check-key <encrypted-key>",
	Short: "Check that a NEP-2 key opens with a passphrase and print its address.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := promptSecret("Enter passphrase: ")
		if err != nil {
			return err
		}
		defer clear(passphrase)

		codec := crypto.NewNEP2(crypto.DefaultScryptParams(), logger.NewLoggerWithLevel(os.Stderr, "error"))
		credential, err := codec.Decrypt(context.Background(), args[0], string(passphrase))
		if err != nil {
			return err
		}
		defer clear(credential.PrivateKey)

		fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\n", credential.Address)
		return nil
	},
}

// promptSecret reads a line from the terminal without echoing it
func promptSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the command interactively")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("input cannot be empty")
	}
	return raw, nil
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(encryptKeyCmd, checkKeyCmd)
}
