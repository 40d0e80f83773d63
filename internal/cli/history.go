package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/HojaMaestra/internal/export"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/store"
)

// sheetSummary is the listing view of a sheet.
type sheetSummary struct {
	ID       string    `json:"id" yaml:"id"`
	Type     string    `json:"tipo" yaml:"tipo"`
	Status   string    `json:"estado" yaml:"estado"`
	Client   string    `json:"cliente" yaml:"cliente"`
	Product  string    `json:"producto" yaml:"producto"`
	SAP      string    `json:"sap" yaml:"sap"`
	Modified time.Time `json:"modificada" yaml:"modificada"`
}

func summarize(sheets []*model.Sheet) []sheetSummary {
	out := make([]sheetSummary, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, sheetSummary{
			ID:       s.ID,
			Type:     string(s.Type),
			Status:   string(s.Status),
			Client:   s.Client(),
			Product:  s.Product(),
			SAP:      s.SAPCode(),
			Modified: s.UpdatedAt,
		})
	}
	return out
}

// printSheets writes the listing as an aligned table, JSON or YAML.
func printSheets(w io.Writer, sheets []*model.Sheet, format string, now time.Time) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summarize(sheets))
	case formatYAML:
		return yaml.NewEncoder(w).Encode(summarize(sheets))
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIPO\tESTADO\tCLIENTE\tPRODUCTO\tMODIFICADA")
		for _, s := range sheets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Type, s.Status, s.Client(), s.Product(),
				humanize.RelTime(s.UpdatedAt, now, "ago", "from now"))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (table, json or yaml)", format)
	}
}

// printStats writes the history counts.
func printStats(w io.Writer, st store.Stats, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case formatYAML:
		return yaml.NewEncoder(w).Encode(st)
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Total\t%s\n", humanize.Comma(int64(st.Total)))
		for _, t := range model.SheetTypes {
			fmt.Fprintf(tw, "%s\t%s\n", t, humanize.Comma(int64(st.ByType[t])))
		}
		for _, s := range model.Statuses {
			fmt.Fprintf(tw, "%s\t%s\n", s, humanize.Comma(int64(st.ByStatus[s])))
		}
		fmt.Fprintf(tw, "Next FAC\t%s\n", st.NextFAC)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (table, json or yaml)", format)
	}
}

// parseDay reads a YYYY-MM-DD filter bound. Empty means unbounded.
func parseDay(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func newHistoryCmd(e *env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the saved sheets.",
	}
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "table", "table, json or yaml")

	var (
		sheetType string
		status    string
		from      string
		to        string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sheets, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.Filter{
				Type:   model.SheetType(strings.ToUpper(sheetType)),
				Status: model.Status(strings.ToLower(status)),
			}
			if f.Type != "" && !f.Type.Valid() {
				return fmt.Errorf("unknown sheet type %q", sheetType)
			}
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			var err error
			if f.From, err = parseDay(from, false); err != nil {
				return err
			}
			if f.To, err = parseDay(to, true); err != nil {
				return err
			}

			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			sheets, err := st.Filter(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printSheets(cmd.OutOrStdout(), sheets, format, time.Now())
		},
	}
	listCmd.Flags().StringVar(&sheetType, "type", "", "SAP, FAC or MAQ")
	listCmd.Flags().StringVar(&status, "status", "", "borrador, finalizada or aprobada")
	listCmd.Flags().StringVar(&from, "from", "", "created on or after (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "created on or before (YYYY-MM-DD)")

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search sheets by ID, client, product or SAP code.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			sheets, err := st.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printSheets(cmd.OutOrStdout(), sheets, format, time.Now())
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Count sheets by type and status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats, format)
		},
	}

	excelCmd := &cobra.Command{
		Use:   "excel FILE",
		Short: "Export the whole history to one workbook.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			sheets, err := st.List(cmd.Context(), "")
			if err != nil {
				return err
			}
			if err := export.ExportHistoryExcel(args[0], sheets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d sheets to %s\n", len(sheets), args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, searchCmd, statsCmd, excelCmd)
	return cmd
}
