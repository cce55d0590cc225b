package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/odette-proxy/internal/app"
	"github.com/florianilch/odette-proxy/internal/keystore"
)

// authCommand returns the 'auth' subcommand for managing the backend API key.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the backend API key",
		Commands: []*cli.Command{
			authSetKeyCommand(),
			authClearCommand(),
		},
	}
}

// authSetKeyCommand returns the 'auth set-key' subcommand.
func authSetKeyCommand() *cli.Command {
	return &cli.Command{
		Name:   "set-key",
		Usage:  "Save the backend API key to the configured storage",
		Action: authSetKeyAction,
	}
}

// authClearCommand returns the 'auth clear' subcommand.
func authClearCommand() *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Remove the backend API key from the configured storage",
		Action: authClearAction,
	}
}

func authSetKeyAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	key, err := readSecureInput(ctx, "Enter backend API key: ")
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if err := store.Write(key); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	fmt.Println("API key saved to configured storage")
	return nil
}

func authClearAction(_ context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear key: %w", err)
	}

	fmt.Println("API key cleared from configured storage")
	return nil
}

func openStore(cmd *cli.Command) (keystore.Store, error) {
	cfg, err := app.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if keystore.Backend(cfg.Auth.Storage) == keystore.BackendEnv {
		return nil, fmt.Errorf("env storage is read-only. Configure file or keyring storage")
	}

	store, err := cfg.NewKeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create key store: %w", err)
	}
	return store, nil
}

// readSecureInput reads user input with hidden display and context cancellation support.
// Goroutine+select pattern required because term.ReadPassword has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}
