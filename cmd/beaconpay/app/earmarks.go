package app

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/beaconpay/beaconpay/internal/export"
	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/distance"
	"github.com/beaconpay/beaconpay/pkg/earmark"
	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/names"
)

// NewEarmarksCommand creates the earmarks command.
func (a *App) NewEarmarksCommand() *cobra.Command {
	var (
		amendmentsPath string
		rosterPath     string
		outPath        string
		summaryPath    string
		useLLM         bool
		llmModel       string
	)

	cmd := &cobra.Command{
		Use:     "earmarks",
		GroupID: "core",
		Short:   "Classify budget amendments and attribute earmarks to members",
		Long: `Earmarks scores each amendment in an extracted amendment book for
member-directed spending, attributes flagged earmarks to their
sponsoring legislators by normalized name, and writes a verification
CSV plus a per-member summary. With --llm, amendments the rules score
ambiguously are escalated to a Gemini model; the key is read from the
GOOGLE_API_KEY environment variable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if amendmentsPath == "" {
				amendmentsPath = a.config.DataPath("amendments.json")
			}
			amendments, err := earmark.LoadAmendments(amendmentsPath)
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

			localities, err := distance.LoadLocalities(a.config.ConfigPath("localities.yaml"))
			if err != nil {
				return err
			}
			localityNames := make([]string, 0, len(localities.Localities))
			for name := range localities.Localities {
				localityNames = append(localityNames, name)
			}

			var advisor earmark.Advisor
			if useLLM {
				gemini, err := earmark.NewGeminiAdvisor(cmd.Context(), os.Getenv("GOOGLE_API_KEY"), llmModel,
					earmark.WithAdvisorLogger(*a.logger))
				if err != nil {
					return err
				}
				advisor = gemini
			}

			classifier := earmark.NewClassifier(localityNames, earmark.WithLogger(*a.logger))
			earmarks := classifier.ClassifyAll(cmd.Context(), amendments, advisor)

			normalizer, err := names.Load(a.config.ConfigPath("names.yaml"))
			if err != nil {
				return err
			}
			mapper := earmark.NewMapper(normalizer, earmark.WithMapperLogger(*a.logger))
			att := mapper.Attribute(earmarks, roster)

			if outPath == "" {
				outPath = a.config.DataPath("earmark_audit.csv")
			}
			if summaryPath == "" {
				summaryPath = a.config.DataPath("earmark_summary.json")
			}
			if err := export.WriteEarmarkAuditCSV(outPath, earmark.AuditRows(att, roster)); err != nil {
				return err
			}
			summaries := earmark.MemberSummaries(att, roster)
			summary := struct {
				Stats   earmark.AttributionStats `json:"stats"`
				Members []earmark.MemberSummary  `json:"members"`
			}{Stats: att.Stats, Members: summaries}
			if err := export.WriteJSON(summaryPath, summary); err != nil {
				return err
			}

			if err := printEarmarkTable(cmd, summaries); err != nil {
				return err
			}
			cmd.Printf("%d amendments, %d earmarks, %d unattributed\n",
				len(amendments), att.Stats.Total, att.Stats.Unmapped)
			cmd.Printf("wrote %s and %s\n", outPath, summaryPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&amendmentsPath, "amendments", "", "amendment book JSON (default data/amendments.json)")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "roster JSON from fetch (default data/roster.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "audit CSV output path (default data/earmark_audit.csv)")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "summary JSON output path (default data/earmark_summary.json)")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "escalate ambiguous amendments to a Gemini model")
	cmd.Flags().StringVar(&llmModel, "llm-model", earmark.DefaultAdvisorModel, "Gemini model for --llm")

	return cmd
}

// printEarmarkTable prints the top members by attributed dollars.
func printEarmarkTable(cmd *cobra.Command, summaries []earmark.MemberSummary) error {
	table := tablewriter.NewTable(cmd.OutOrStdout())
	table.Header("Member", "Chamber", "Earmarks", "Total")

	n := len(summaries)
	if n > constants.PreviewRows {
		n = constants.PreviewRows
	}
	for _, s := range summaries[:n] {
		if err := table.Append(s.Name, s.Chamber, s.Count, fmt.Sprintf("$%.0f", s.Total)); err != nil {
			return err
		}
	}
	return table.Render()
}
