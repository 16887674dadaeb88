package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/notion"
	sfpkg "github.com/sells-group/outreach-cli/pkg/salesforce"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and export stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initLeadStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.List(ctx)
		if err != nil {
			return eris.Wrap(err, "leads list")
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPOSITION\tSCORE\tSENT\tSTATUS\tURL")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%v\t%s\t%s\n",
				model.Deref(rec.Name),
				model.Deref(rec.Position),
				rec.PopularityScore,
				rec.ConnectSent,
				rec.ConnectionStatus,
				rec.URL,
			)
		}
		return w.Flush()
	},
}

var leadsExportNotionCmd = &cobra.Command{
	Use:   "export-notion",
	Short: "Export stored leads to the Notion lead database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" || cfg.Notion.LeadDB == "" {
			return eris.New("notion token and lead database ID are required")
		}

		st, err := initLeadStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.List(ctx)
		if err != nil {
			return eris.Wrap(err, "load leads")
		}

		client := notion.NewClient(cfg.Notion.Token)
		var created, updated, failed int
		for _, rec := range records {
			wasCreated, err := notion.UpsertLead(ctx, client, cfg.Notion.LeadDB, notionLead(rec))
			if err != nil {
				failed++
				zap.L().Error("notion export failed",
					zap.String("url", rec.URL), zap.Error(err))
				continue
			}
			if wasCreated {
				created++
			} else {
				updated++
			}
		}

		zap.L().Info("notion export complete",
			zap.Int("created", created),
			zap.Int("updated", updated),
			zap.Int("failed", failed),
		)
		if failed > 0 {
			return eris.Errorf("notion export: %d of %d leads failed", failed, len(records))
		}
		return nil
	},
}

var leadsSyncSalesforceCmd = &cobra.Command{
	Use:   "sync-salesforce",
	Short: "Sync stored leads to Salesforce Lead records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initLeadStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.List(ctx)
		if err != nil {
			return eris.Wrap(err, "load leads")
		}

		sf, err := initSalesforce()
		if err != nil {
			return err
		}

		batch := make([]sfpkg.Lead, 0, len(records))
		for _, rec := range records {
			batch = append(batch, salesforceLead(rec))
		}

		res, err := sfpkg.SyncLeads(ctx, sf, batch)
		if err != nil {
			return eris.Wrap(err, "salesforce sync")
		}

		zap.L().Info("salesforce sync complete",
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed),
		)
		if res.Failed > 0 {
			return eris.Errorf("salesforce sync: %d of %d leads failed", res.Failed, len(records))
		}
		return nil
	},
}

func notionLead(rec *model.LeadRecord) notion.Lead {
	return notion.Lead{
		Name:             model.Deref(rec.Name),
		Position:         model.Deref(rec.Position),
		Headline:         model.Deref(rec.Headline),
		Location:         model.Deref(rec.Location),
		ProfileURL:       rec.URL,
		PopularityScore:  rec.PopularityScore,
		Summary:          rec.Summary,
		ConnectionNote:   rec.ConnectionNote,
		ConnectSent:      rec.ConnectSent,
		ConnectionStatus: rec.ConnectionStatus,
		DateAdded:        rec.DateAdded,
	}
}

func salesforceLead(rec *model.LeadRecord) sfpkg.Lead {
	return sfpkg.Lead{
		Name:             model.Deref(rec.Name),
		Position:         model.Deref(rec.Position),
		Headline:         model.Deref(rec.Headline),
		Location:         model.Deref(rec.Location),
		ProfileURL:       rec.URL,
		PopularityScore:  rec.PopularityScore,
		Summary:          rec.Summary,
		ConnectionStatus: rec.ConnectionStatus,
	}
}

func init() {
	leadsListCmd.Flags().Bool("json", false, "output JSON instead of a table")
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsExportNotionCmd)
	leadsCmd.AddCommand(leadsSyncSalesforceCmd)
	rootCmd.AddCommand(leadsCmd)
}
