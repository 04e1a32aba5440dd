package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"lboro-timetable/calendar"
	"lboro-timetable/config"
	"lboro-timetable/logging"
	"lboro-timetable/scraper"
	"lboro-timetable/timetable"
)

type runOptions struct {
	configPath string
	outputDir  string
	semester   string
	product    string
	logLevel   string
	ics        bool
	year       int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := runOptions{year: time.Now().Year()}

	cmd := &cobra.Command{
		Use:   "lboro-timetable <timetable.html>",
		Short: "Export a saved timetable page as calendar events",
		Long: "Reads the HTML of a rendered personal timetable page and writes one calendar " +
			"event per session and teaching week as CSV, and optionally as iCalendar.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (YAML or JSON)")
	flags.StringVarP(&opts.outputDir, "out", "o", "", "directory to write exports to")
	flags.StringVarP(&opts.semester, "semester", "s", "", "semester to export (sem1 or sem2), overrides the page's period dropdown")
	flags.StringVar(&opts.product, "product", "", "file name prefix for exports")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.ics, "ics", false, "also write an iCalendar file")
	flags.IntVar(&opts.year, "year", opts.year, "year used in export file names")
	return cmd
}

func run(cmd *cobra.Command, page string, opts runOptions) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.product != "" {
		cfg.Product = opts.product
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.ics && !cfg.Wants("ics") {
		cfg.Formats = append(cfg.Formats, "ics")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Configure(logging.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr(), Pretty: true})
	log := logging.WithComponent("cli")

	f, err := os.Open(page)
	if err != nil {
		return fmt.Errorf("error opening timetable page: %w", err)
	}
	defer f.Close()

	res, err := timetable.ConvertHTML(f, timetable.Options{Semester: opts.semester})
	if errors.Is(err, scraper.ErrNoSemester) {
		return errors.New(`ensure that the "Period" dropdown is set to "Semester 1" or "Semester 2", or pass --semester sem1|sem2`)
	}
	if err != nil {
		return err
	}
	if len(res.Events) == 0 {
		log.Warn().Str("page", page).Msg("no sessions found on timetable")
	}

	written, err := writeExports(cfg, res, opts.year)
	if err != nil {
		return err
	}
	for _, path := range written {
		log.Info().Str("path", path).Int("events", len(res.Events)).Msg("wrote export")
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// writeExports writes every enabled format atomically and returns the paths.
func writeExports(cfg *config.Config, res *timetable.Result, year int) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	var written []string
	for _, format := range cfg.Formats {
		var data []byte
		switch format {
		case "csv":
			csv, err := res.CSV()
			if err != nil {
				return written, err
			}
			data = csv
		case "ics":
			var buf bytes.Buffer
			opts := calendar.ICSOptions{Name: cfg.CalendarName, Stamp: time.Now().UTC()}
			if err := calendar.WriteICS(&buf, res.Events, opts); err != nil {
				return written, err
			}
			data = buf.Bytes()
		default:
			return written, fmt.Errorf("unsupported export format %q", format)
		}

		path := filepath.Join(cfg.OutputDir, calendar.FileName(cfg.Product, year, res.Reference.Semester, format))
		if err := renameio.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("error writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
