package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/credstore"
	"expense-ledger/internal/expenses"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/storage"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(context.Background())
}

type rootOptions struct {
	dbPath   string
	backend  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Personal expense ledger",
		Long:          "ledger keeps per-user expense records in a local store. Log in once; the session lasts 24 hours.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the sqlite store (default $DB_PATH or expenses.db)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: sqlite, redis, mongo (default $STORAGE_BACKEND or sqlite)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		registerCmd(opts),
		loginCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		addCmd(opts),
		listCmd(opts),
		deleteCmd(opts),
		clearCmd(opts),
		sampleCmd(opts),
		exportCmd(opts),
		summaryCmd(opts),
	)
	return root
}

// app is one opened storage instance with its session manager.
type app struct {
	manager  *auth.Manager
	expenses *expenses.Service
}

// withApp opens the configured store, runs fn, and closes the store.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	ctx := cmd.Context()

	// Flags beat environment variables.
	cfg, err := config.Load(ctx, func(c *config.Config) {
		if opts.dbPath != "" {
			c.Storage.Path = opts.dbPath
		}
		if opts.backend != "" {
			c.Storage.Backend = opts.backend
		}
	})
	if err != nil {
		return err
	}
	// Each command is its own process; an in-memory store would forget
	// accounts and the session as soon as it exits.
	if cfg.Storage.Backend == config.BackendMemory {
		return fmt.Errorf("the %q backend cannot be used from the command line", config.BackendMemory)
	}

	log := logger.New(logger.Options{Level: opts.logLevel, Pretty: true, Output: cmd.ErrOrStderr()})

	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close storage")
		}
	}()

	store := credstore.New(kv, cfg.Storage.Namespace, credstore.WithLogger(log))
	manager := auth.NewManager(store, kv, cfg.Storage.Namespace, auth.WithLogger(log))
	manager.Init(ctx)

	return fn(&app{
		manager:  manager,
		expenses: expenses.NewService(manager, expenses.WithLogger(log)),
	})
}

// report prints the outcome message and returns err unless it only signals
// that the change was not persisted.
func report(cmd *cobra.Command, okMessage string, err error) error {
	if errors.Is(err, expenses.ErrExpenseNotFound) {
		return err
	}
	res := auth.NewResult(okMessage, err)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func passwordFlag(cmd *cobra.Command, flag string) (string, error) {
	password, _ := cmd.Flags().GetString(flag)
	if password != "" {
		return password, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout()) // Print newline after password input

	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
