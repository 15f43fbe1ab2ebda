package app

// pkg/app/commands.go holds the CLI sub-commands. They are built from the
// Application and use only framework packages.

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/marketplace/internal/server"
)

// Command returns the root cobra command with every sub-command attached.
func (a *Application) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           a.name,
		Short:         a.name + " HTTP API and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.migrateRollbackCmd(),
		a.migrateStatusCmd(),
		a.seedCmd(),
		a.routeListCmd(),
	)
	return root
}

// withKernel opens a kernel for the duration of fn.
func (a *Application) withKernel(withDB bool, fn func(k *Kernel) error) error {
	k, err := a.Kernel(withDB)
	if err != nil {
		return err
	}
	defer k.Close() //nolint:errcheck
	return fn(k)
}

// serve: start the HTTP server.
func (a *Application) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start", "run"},
		Short:   "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.withKernel(true, func(k *Kernel) error {
				policy := k.Config.Policy()
				k.Log.Info("starting", "mode", policy.Mode(), "csrf", policy.CSRFEnabled)
				if err := a.Boot(ctx, k); err != nil {
					return err
				}
				return server.Serve(ctx, a.Handler(k), server.Options{
					Addr:            k.Config.Addr(),
					ShutdownTimeout: k.Config.ShutdownTimeout,
					Log:             k.Log,
				})
			})
		},
	}
}

// migrate: run all pending migrations.
func (a *Application) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withKernel(true, func(k *Kernel) error {
				_, err := a.migrator(k).Run(cmd.Context())
				return err
			})
		},
	}
}

// migrate:rollback: reverse the last batch.
func (a *Application) migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate:rollback",
		Aliases: []string{"migrate:down"},
		Short:   "Rollback the last batch of migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withKernel(true, func(k *Kernel) error {
				_, err := a.migrator(k).Rollback(cmd.Context())
				return err
			})
		},
	}
}

// migrate:status: show each migration and its batch.
func (a *Application) migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withKernel(true, func(k *Kernel) error {
				return a.migrator(k).PrintStatus(cmd.Context())
			})
		},
	}
}

// seed: run every seeder in order, stopping at the first failure.
func (a *Application) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run all database seeders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withKernel(true, func(k *Kernel) error {
				return a.seed(cmd.Context(), k)
			})
		},
	}
}

func (a *Application) seed(ctx context.Context, k *Kernel) error {
	if len(a.seeders) == 0 {
		fmt.Fprintln(a.out, "No seeders registered.")
		return nil
	}
	for _, s := range a.seeders {
		fmt.Fprintf(a.out, "  • Running seeder: %s … ", s.Name)
		if err := s.Run(ctx, k.DB); err != nil {
			fmt.Fprintln(a.out, "FAILED")
			return fmt.Errorf("seeder %q: %w", s.Name, err)
		}
		fmt.Fprintln(a.out, "done")
	}
	fmt.Fprintf(a.out, "Seeding complete (%d seeders ran)\n", len(a.seeders))
	return nil
}

// route:list: print all named routes. No database is needed.
func (a *Application) routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List all registered named routes",
		RunE: func(*cobra.Command, []string) error {
			return a.withKernel(false, func(k *Kernel) error {
				return a.printRoutes(k)
			})
		},
	}
}

func (a *Application) printRoutes(k *Kernel) error {
	infos := a.Router(k).Routes()
	if len(infos) == 0 {
		fmt.Fprintln(a.out, "No named routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
