package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beaconpay/beaconpay/internal/export"
	"github.com/beaconpay/beaconpay/internal/geo"
	"github.com/beaconpay/beaconpay/pkg/compensation"
	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/cycle"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/stipend"
)

// NewComputeCommand creates the compute command.
func (a *App) NewComputeCommand() *cobra.Command {
	var (
		rosterPath    string
		outPath       string
		summaryPath   string
		statementsDir string
	)

	cmd := &cobra.Command{
		Use:     "compute",
		GroupID: "core",
		Short:   "Compute modeled compensation for every roster member",
		Long: `Compute applies the active pay cycle to a fetched roster: base salary
with statutory median-income adjustments, the distance-banded expense
allowance, and up to two leadership or committee stipends per member.

Results are written as a member-per-row CSV plus an aggregate summary.
Pass --statements to also render a per-member PDF statement.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.buildEngine()
			if err != nil {
				return err
			}

			if rosterPath == "" {
				rosterPath = a.config.DataPath("roster.json")
			}
			roster, err := legislature.LoadRoster(rosterPath)
			if err != nil {
				return err
			}

			run, err := engine.ComputeAll(roster)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = a.config.DataPath("members.csv")
			}
			if summaryPath == "" {
				summaryPath = a.config.DataPath("summary.json")
			}
			if err := export.WriteMembersCSV(outPath, run); err != nil {
				return err
			}
			if err := export.WriteJSON(summaryPath, compensation.Summarize(run)); err != nil {
				return err
			}

			if statementsDir != "" {
				if err := writeStatements(statementsDir, run); err != nil {
					return err
				}
			}

			cmd.Printf("computed %d members (%d banding errors, %d unmapped roles)\n",
				len(run.Records), len(run.BandingErrors), len(run.UnmappedRoles))
			cmd.Printf("wrote %s and %s\n", outPath, summaryPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "roster JSON file (default data/roster.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "members CSV output path (default data/members.csv)")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "summary JSON output path (default data/summary.json)")
	cmd.Flags().StringVar(&statementsDir, "statements", "", "directory for per-member PDF statements")

	return cmd
}

// buildEngine loads the rule configuration files and assembles the
// compensation engine.
func (a *App) buildEngine() (*compensation.Engine, error) {
	cycleCfg, err := cycle.Load(a.config.ConfigPath("cycle.json"))
	if err != nil {
		return nil, err
	}
	resolved, err := cycleCfg.Resolve()
	if err != nil {
		return nil, err
	}

	tiers, err := stipend.LoadTiers(a.config.ConfigPath("committees.yaml"))
	if err != nil {
		return nil, err
	}
	tiers.AddTierA(resolved.TierACommittees)

	localities, err := distance.LoadLocalities(a.config.ConfigPath("localities.yaml"))
	if err != nil {
		return nil, err
	}
	centroids, err := geo.LoadCentroids(a.config.ConfigPath("centroids.json"))
	if err != nil {
		return nil, err
	}

	bander := &distance.Bander{
		Localities: localities.Localities,
		Centroids:  centroids,
		Overrides:  localities.Overrides,
	}
	selector := &stipend.Selector{
		Table: stipend.NewTable(resolved),
		Tiers: tiers,
	}

	return compensation.NewEngine(resolved, bander, selector,
		compensation.WithLogger(*a.logger)), nil
}

// writeStatements renders one PDF statement per record into dir.
func writeStatements(dir string, run *compensation.Run) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	for _, rec := range run.Records {
		path := filepath.Join(dir, fmt.Sprintf("%s.pdf", rec.MemberID))
		f, err := os.Create(path)
		if err != nil {
			return errors.WrapIO("create", path, err)
		}
		if err := export.WriteStatement(f, run, rec); err != nil {
			f.Close() //nolint:errcheck,gosec // best effort on the error path
			return err
		}
		if err := f.Close(); err != nil {
			return errors.WrapIO("close", path, err)
		}
	}
	return nil
}
