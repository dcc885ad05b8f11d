package app

import (
	"github.com/spf13/cobra"

	"github.com/beaconpay/beaconpay/internal/export"
	"github.com/beaconpay/beaconpay/internal/report"
)

// NewReportCommand creates the report command.
func (a *App) NewReportCommand() *cobra.Command {
	var (
		membersPath string
		list        bool
	)

	cmd := &cobra.Command{
		Use:     "report [name]",
		GroupID: "core",
		Short:   "Render analytical reports over computed records",
		Long: `Report renders one named analysis, or every registered analysis when
no name is given. Use --list to see what is available.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, r := range report.All() {
					cmd.Printf("%-24s %s\n", r.Name, r.Description)
				}
				return nil
			}

			if membersPath == "" {
				membersPath = a.config.DataPath("members.csv")
			}
			records, err := export.ReadMembersCSV(membersPath)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				r, err := report.Get(args[0])
				if err != nil {
					return err
				}
				return r.Run(cmd.OutOrStdout(), records)
			}

			for _, r := range report.All() {
				cmd.Printf("\n== %s ==\n", r.Name)
				if err := r.Run(cmd.OutOrStdout(), records); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&membersPath, "members", "", "members CSV from compute (default data/members.csv)")
	cmd.Flags().BoolVar(&list, "list", false, "list available reports")

	return cmd
}
