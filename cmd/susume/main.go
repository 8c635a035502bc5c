package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/root-talis/susume"
	"github.com/root-talis/susume/config"
	"github.com/root-talis/susume/driver"
	mysqldriver "github.com/root-talis/susume/driver/mysql"
	"github.com/root-talis/susume/invoke"
	"github.com/root-talis/susume/source/files"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "susume",
		Short: "Forward-only schema migration runner",
		Long: `susume discovers migration units in a directory, tracks which have
been applied in a ledger table inside the target database, and executes
the pending remainder strictly in name order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newAdoptCmd())

	return root
}

// withRunner wires one invocation: config, store connection (released
// on every exit path), source, driver and invoker.
func withRunner(cmd *cobra.Command, fn func(ctx context.Context, runner susume.Susume) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrStoreUnavailable, err)
	}
	defer conn.Close()

	conn.SetMaxOpenConns(cfg.PoolSize)

	ctx := cmd.Context()
	if err = conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", driver.ErrStoreUnavailable, err)
	}

	migrationsFS := os.DirFS(cfg.MigrationsDir)
	src, err := files.NewSource(migrationsFS, ".")
	if err != nil {
		return err
	}

	drv := mysqldriver.NewDriver(conn, mysqldriver.DriverConfig{
		DatabaseName:    cfg.Database,
		LedgerTableName: cfg.LedgerTableName,
	})
	inv := invoke.NewSQLInvoker(migrationsFS, conn)
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	return fn(ctx, susume.New(src, drv, inv, log))
}
