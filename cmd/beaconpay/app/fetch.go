package app

import (
	"github.com/spf13/cobra"

	"github.com/beaconpay/beaconpay/internal/export"
	"github.com/beaconpay/beaconpay/internal/sources/malegislature"
	"github.com/beaconpay/beaconpay/internal/sources/payroll"
	"github.com/beaconpay/beaconpay/internal/transport"
	"github.com/beaconpay/beaconpay/pkg/constants"
)

// NewFetchCommand creates the fetch command and its subcommands.
func (a *App) NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "data",
		Short:   "Fetch upstream data sources",
		Long: `Fetch downloads upstream data into the data directory. Responses are
cached, so repeated runs within the cache TTL do not hit the network.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(a.newFetchRosterCommand())
	cmd.AddCommand(a.newFetchPayrollCommand())

	return cmd
}

func (a *App) newFetchRosterCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Fetch the member roster with committee assignments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.Cache()
			if err != nil {
				return err
			}
			client := malegislature.New(
				malegislature.WithBaseURL(a.config.APIBase),
				malegislature.WithCache(cache),
				malegislature.WithTransport(a.Transport()),
				malegislature.WithLogger(*a.logger),
			)

			roster, err := client.FetchRoster(cmd.Context(), a.config.Session)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = a.config.DataPath("roster.json")
			}
			if err := roster.Save(outPath); err != nil {
				return err
			}
			cmd.Printf("fetched %d members to %s\n", len(roster.Members), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "roster output path (default data/roster.json)")

	return cmd
}

func (a *App) newFetchPayrollCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Fetch and aggregate the statewide payroll feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.Cache()
			if err != nil {
				return err
			}
			client := payroll.New(
				payroll.WithURL(a.config.PayrollURL),
				payroll.WithCache(cache),
				payroll.WithTransport(transport.New(
					transport.WithTimeout(constants.PayrollFetchTimeout),
					transport.WithLogger(*a.logger),
				)),
				payroll.WithLogger(*a.logger),
			)

			feed, err := client.Fetch(cmd.Context(), a.config.Year)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = a.config.DataPath("payroll.json")
			}
			if err := export.WriteJSON(outPath, feed); err != nil {
				return err
			}
			cmd.Printf("fetched %d legislative payees to %s\n", len(feed.Records), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "payroll feed output path (default data/payroll.json)")

	return cmd
}
