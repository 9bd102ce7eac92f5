package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/expenses"
	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func addCmd(opts *rootOptions) *cobra.Command {
	var name, amount, category, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Example: `  ledger add --name Coffee --amount 4.50 --category food
  ledger add --name Rent --amount 900 --category bills --date 2026-10-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				in := expenses.NewExpense{Name: name, Category: models.Category(category)}

				var err error
				if in.Amount, err = decimal.NewFromString(amount); err != nil {
					return fmt.Errorf("invalid amount %q", amount)
				}
				if date == "" {
					in.Date = models.DateOf(a.expenses.Now())
				} else if in.Date, err = models.ParseDate(date); err != nil {
					return err
				}

				added, err := a.expenses.Add(cmd.Context(), in)
				return report(cmd, fmt.Sprintf("Added $%s for %s.", added.Amount.StringFixed(2), added.Name), err)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "what the money was spent on")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount, e.g. 12.50")
	cmd.Flags().StringVar(&category, "category", string(models.CategoryOther), "food, transport, shopping, entertainment, bills, health, education or other")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	return cmd
}

func listCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current user's expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !a.manager.IsAuthenticated(cmd.Context()) {
					return fmt.Errorf("%s", auth.Message(auth.ErrNotAuthenticated))
				}
				records := a.expenses.List(cmd.Context())
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No expenses yet. Add your first expense!")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tNAME\tCATEGORY\tAMOUNT")
				for _, r := range records {
					def := expenses.Lookup(r.Category)
					fmt.Fprintf(w, "%d\t%s\t%s\t%s %s\t$%s\n", r.ID, r.Date, r.Name, def.Icon, def.Label, r.Amount.StringFixed(2))
				}
				return w.Flush()
			})
		},
	}
}

func deleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}
			return withApp(cmd, opts, func(a *app) error {
				return report(cmd, "Expense deleted.", a.expenses.Delete(cmd.Context(), id))
			})
		},
	}
}

func clearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all of the current user's expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				return report(cmd, "All expenses cleared.", a.expenses.Clear(cmd.Context()))
			})
		},
	}
}

func sampleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Replace the current user's expenses with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				_, err := a.expenses.LoadSample(cmd.Context())
				return report(cmd, "Sample data loaded.", err)
			})
		},
	}
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current user's expenses as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if output == "" {
					return exportError(a.expenses.Export(cmd.Context(), cmd.OutOrStdout()))
				}

				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := exportError(a.expenses.Export(cmd.Context(), f)); err != nil {
					f.Close()
					os.Remove(output)
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func exportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, expenses.ErrNoExpenses) {
		return fmt.Errorf("no expenses to export")
	}
	return fmt.Errorf("%s", auth.Message(err))
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show spending totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !a.manager.IsAuthenticated(cmd.Context()) {
					return fmt.Errorf("%s", auth.Message(auth.ErrNotAuthenticated))
				}
				s := a.expenses.Summary(cmd.Context())

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Total\t$%s\n", s.Total.StringFixed(2))
				fmt.Fprintf(w, "This month\t$%s\n", s.MonthTotal.StringFixed(2))
				fmt.Fprintf(w, "Daily average (30d)\t$%s\n", s.DailyAverage.StringFixed(2))
				fmt.Fprintf(w, "Top category\t%s\n", s.TopCategory)
				for _, c := range s.Categories {
					fmt.Fprintf(w, "  %s %s\t$%s\t%.1f%%\n", c.Icon, c.Label, c.Total.StringFixed(2), c.Percentage)
				}
				return w.Flush()
			})
		},
	}
}
