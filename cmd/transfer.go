package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/pipeline"
	"github.com/theirongolddev/budgetpulse/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagImportReplace bool
	flagExportFormat  string
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Import household records from TOML or JSON files",
	Long: "Import household records from a file, or from every .toml and .json\n" +
		"file in a directory. Records are merged by ID unless --replace is given.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the household as TOML or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportReplace, "replace", false, "Replace all stored records instead of merging")
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "Output format: toml or json (default from file extension, else toml)")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	var res *pipeline.LoadResult
	if info.IsDir() {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Scanning %s...\n", path)
		}
		res, err = pipeline.LoadDir(path, progressFn)
		if err != nil {
			return err
		}
		if !flagQuiet && res.TotalFiles > 0 {
			fmt.Fprintln(os.Stderr)
		}
	} else {
		res = pipeline.LoadFiles([]string{path}, nil)
	}

	if res.TotalFiles == 0 {
		return fmt.Errorf("no .toml or .json files in %s", path)
	}
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", f.Path, f.Err)
		}
	}
	if res.ParsedFiles == 0 {
		return res.Err()
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
	}
	if res.Currency != "" && res.Currency != currency() {
		fmt.Fprintf(os.Stderr, "  note: file currency %q differs from configured %q\n", res.Currency, currency())
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	stats, err := st.Import(cmd.Context(), res.Snapshot, flagImportReplace)
	if err != nil {
		return err
	}
	slog.Info("import finished", "files", res.ParsedFiles, "records", stats.Total(), "replace", flagImportReplace)

	mode := "Merged"
	if flagImportReplace {
		mode = "Replaced with"
	}
	fmt.Printf("  %s %s records from %d file(s)\n", mode, cli.FormatNumber(int64(stats.Total())), res.ParsedFiles)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Kind", "Records"},
		Rows: [][]string{
			{"Categories", fmt.Sprintf("%d new, %d updated", stats.Categories, stats.CategoriesUpdated)},
			{"Incomes", cli.FormatNumber(int64(stats.Incomes))},
			{"Expenses", cli.FormatNumber(int64(stats.Expenses))},
			{"Goals", cli.FormatNumber(int64(stats.Goals))},
			{"Payments", cli.FormatNumber(int64(stats.Payments))},
			{"Debts", cli.FormatNumber(int64(stats.Debts))},
		},
	}))
	if stats.Relinked > 0 {
		fmt.Printf("  %d expense category reference(s) matched stored category IDs\n", stats.Relinked)
	}
	return nil
}

func exportFormat(path string) (source.Format, error) {
	switch strings.ToLower(flagExportFormat) {
	case "toml":
		return source.FormatTOML, nil
	case "json":
		return source.FormatJSON, nil
	case "":
		if path == "" {
			return source.FormatTOML, nil
		}
		return source.FormatFromPath(path)
	}
	return 0, fmt.Errorf("%w: %q", source.ErrUnsupportedFormat, flagExportFormat)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format, err := exportFormat(path)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if path != "" {
		f, ferr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if ferr != nil {
			return fmt.Errorf("creating %s: %w", path, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := source.Write(w, snap, currency(), format); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "  Exported to %s (%s)\n", path, format)
	}
	return nil
}
