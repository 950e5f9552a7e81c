package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"visitorlog/internal/report"
)

var exportFormat string
var exportOut string

var visitorCmd = &cobra.Command{
	Use:   "visitor",
	Short: "Manage visitor records",
	Long:  `List, import, and export visitor log entries.`,
}

var visitorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all visitor records",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		visitors, err := provider.ListAllVisitors(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing visitors: %v\n", err)
			os.Exit(1)
		}

		if len(visitors) == 0 {
			fmt.Println("No visitors found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPURPOSE\tDATE")
		for _, v := range visitors {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", v.ID, v.Name, v.Purpose, v.VisitedAt.Format(time.RFC3339))
		}
		w.Flush()
	},
}

var visitorImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import visitor records from a CSV file",
	Long:  `Import visitor records from a name,purpose,date CSV file. UTF-16 exports with a BOM are handled.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		visitors, err := report.ReadCSVFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading CSV: %v\n", err)
			os.Exit(1)
		}

		for _, v := range visitors {
			if _, err := provider.CreateVisitor(ctx, v); err != nil {
				fmt.Fprintf(os.Stderr, "Error importing visitor %q: %v\n", v.Name, err)
				os.Exit(1)
			}
		}

		fmt.Printf("Imported %d visitor records.\n", len(visitors))
	},
}

var visitorExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export visitor records to a CSV or PDF file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		visitors, err := provider.ListAllVisitors(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing visitors: %v\n", err)
			os.Exit(1)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		switch exportFormat {
		case "csv":
			err = report.WriteCSV(f, visitors)
		case "pdf":
			err = report.WritePDF(f, visitors)
		default:
			fmt.Fprintf(os.Stderr, "Unknown export format %q (want csv or pdf)\n", exportFormat)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Exported %d visitor records to %s.\n", len(visitors), exportOut)
	},
}

func init() {
	visitorExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or pdf")
	visitorExportCmd.Flags().StringVar(&exportOut, "out", "visitors.csv", "output file path")

	rootCmd.AddCommand(visitorCmd)
	visitorCmd.AddCommand(visitorListCmd)
	visitorCmd.AddCommand(visitorImportCmd)
	visitorCmd.AddCommand(visitorExportCmd)
}
