package app

import (
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/beaconpay/beaconpay/internal/export"
	"github.com/beaconpay/beaconpay/internal/sources/payroll"
	"github.com/beaconpay/beaconpay/pkg/names"
	"github.com/beaconpay/beaconpay/pkg/reconcile"
)

// NewReconcileCommand creates the reconcile command.
func (a *App) NewReconcileCommand() *cobra.Command {
	var (
		membersPath string
		payrollPath string
		outPath     string
		summaryPath string
	)

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Reconcile modeled compensation against actual payroll",
		Long: `Reconcile joins the computed member records against the statewide
payroll feed by normalized name, classifies each variance through the
decision table, and writes a variance-per-row CSV plus an aggregate
summary. Payroll comes from a previously fetched feed file when
--payroll is given, otherwise it is downloaded live.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if membersPath == "" {
				membersPath = a.config.DataPath("members.csv")
			}
			records, err := export.ReadMembersCSV(membersPath)
			if err != nil {
				return err
			}

			feed, err := a.loadPayroll(cmd, payrollPath)
			if err != nil {
				return err
			}

			normalizer, err := names.Load(a.config.ConfigPath("names.yaml"))
			if err != nil {
				return err
			}

			result := reconcile.NewReconciler(normalizer).Reconcile(records, feed.Records)
			summary := reconcile.Summarize(result)

			if outPath == "" {
				outPath = a.config.DataPath("variances.csv")
			}
			if summaryPath == "" {
				summaryPath = a.config.DataPath("reconcile_summary.json")
			}
			if err := export.WriteVariancesCSV(outPath, result); err != nil {
				return err
			}
			if err := export.WriteJSON(summaryPath, summary); err != nil {
				return err
			}

			if err := printStatusTable(cmd, summary); err != nil {
				return err
			}
			cmd.Printf("wrote %s and %s\n", outPath, summaryPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&membersPath, "members", "", "members CSV from compute (default data/members.csv)")
	cmd.Flags().StringVar(&payrollPath, "payroll", "", "payroll feed JSON from fetch (default: download live)")
	cmd.Flags().StringVar(&outPath, "out", "", "variances CSV output path (default data/variances.csv)")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "summary JSON output path (default data/reconcile_summary.json)")

	return cmd
}

// loadPayroll reads a fetched feed file, or downloads the feed for the
// configured year when no file is given.
func (a *App) loadPayroll(cmd *cobra.Command, path string) (*payroll.Feed, error) {
	if path != "" {
		var feed payroll.Feed
		if err := export.ReadJSON(path, &feed); err != nil {
			return nil, err
		}
		return &feed, nil
	}

	cache, err := a.Cache()
	if err != nil {
		return nil, err
	}
	client := payroll.New(
		payroll.WithURL(a.config.PayrollURL),
		payroll.WithCache(cache),
		payroll.WithTransport(a.Transport()),
		payroll.WithLogger(*a.logger),
	)
	return client.Fetch(cmd.Context(), a.config.Year)
}

// printStatusTable prints per-status match counts.
func printStatusTable(cmd *cobra.Command, summary *reconcile.Summary) error {
	statuses := make([]reconcile.Status, 0, len(summary.Statuses))
	for status := range summary.Statuses {
		if status == reconcile.StatusNoMatch {
			// Shown split by side below.
			continue
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	table := tablewriter.NewTable(cmd.OutOrStdout())
	table.Header("Status", "Members")
	for _, status := range statuses {
		if err := table.Append(string(status), summary.Statuses[status]); err != nil {
			return err
		}
	}
	if err := table.Append("UNMATCHED_MODEL", summary.UnmatchedModel); err != nil {
		return err
	}
	if err := table.Append("UNMATCHED_PAYROLL", summary.UnmatchedPayroll); err != nil {
		return err
	}
	return table.Render()
}
