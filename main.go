// Package main generates printable math worksheets as PDF documents.
// Two worksheet kinds are supported, each exported as a questions sheet and
// an answers sheet:
//   - tables: columns of ten multiplication or division rows
//   - sums: columns of numbers to add up
//
// The worksheet is described in a YAML file. The generated PDFs are written
// to the output directory and can optionally be emailed.
//
// Usage: mathsheets tables|sums [-c worksheet.yaml] [-o dir]
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

const dateArgLayout = "2006-01-02"

// runOptions holds the command line flags shared by all subcommands.
type runOptions struct {
	configPath string
	outputDir  string
	variant    string
	date       string
	mail       bool
	text       bool
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:   "mathsheets",
		Short: "Generate printable math practice worksheets",
		Long: `mathsheets turns a worksheet description (title, name, level and a
list of tables or sums) into printable PDF drill sheets.

Every run produces a questions sheet with blank answers and an answers
sheet with the solutions filled in.`,
		Version:      version,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "worksheet.yaml", "Worksheet configuration file")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default: output from config, or .)")
	flags.StringVar(&opts.variant, "variant", "both", "Sheets to generate: both, questions, answers")
	flags.StringVar(&opts.date, "date", "", "Base date YYYY-MM-DD for the date stamp (default: today)")
	flags.BoolVar(&opts.mail, "mail", false, "Email the generated files")
	flags.BoolVar(&opts.text, "text", false, "Print the worksheet as text instead of writing PDFs")

	root.AddCommand(
		newKindCmd(KindTables, "Generate multiplication or division tables", opts),
		newKindCmd(KindSums, "Generate column sums", opts),
	)

	return root
}

func newKindCmd(kind Kind, short string, opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), kind, opts, time.Now())
		},
	}
}

// parseVariant maps the --variant flag to the showAnswers values to render.
func parseVariant(s string) ([]bool, error) {
	switch s {
	case "both", "":
		return []bool{false, true}, nil
	case "questions":
		return []bool{false}, nil
	case "answers":
		return []bool{true}, nil
	default:
		return nil, fmt.Errorf("invalid variant: %s (must be both, questions, or answers)", s)
	}
}

// parseBaseDate parses the --date flag, defaulting to now.
func parseBaseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	date, err := time.Parse(dateArgLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return date, nil
}

// buildDocuments validates the worksheet for the given kind and builds one
// document per variant.
func buildDocuments(ws Worksheet, kind Kind, variants []bool, date string) ([]Document, error) {
	var (
		check func(Worksheet) error
		build func(Worksheet, bool, string) (Document, error)
	)
	switch kind {
	case KindTables:
		check, build = validateTables, buildTablesDocument
	case KindSums:
		check, build = validateSums, buildSumsDocument
	default:
		return nil, fmt.Errorf("unknown worksheet kind: %s", kind)
	}

	if err := check(ws); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(variants))
	for _, showAnswers := range variants {
		doc, err := build(ws, showAnswers, date)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// renderDocuments renders every document to PDF in memory.
func renderDocuments(docs []Document, opts renderOptions) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(docs))
	for _, doc := range docs {
		data, err := renderPDF(doc, opts)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, Attachment{Filename: doc.Filename, Data: data})
	}
	return attachments, nil
}

// writeFiles stores the attachments in dir.
func writeFiles(dir string, attachments []Attachment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, a := range attachments {
		path := filepath.Join(dir, a.Filename)
		log.Printf("Writing: %s", path)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func run(out io.Writer, kind Kind, opts *runOptions, now time.Time) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.Output = opts.outputDir
	}
	if opts.mail {
		if err := cfg.checkMail(); err != nil {
			return fmt.Errorf("cannot send mail: %w", err)
		}
	}

	variants, err := parseVariant(opts.variant)
	if err != nil {
		return err
	}
	base, err := parseBaseDate(opts.date, now)
	if err != nil {
		return err
	}

	docs, err := buildDocuments(cfg.Worksheet, kind, variants, worksheetDate(cfg.Calendar, base))
	if err != nil {
		return err
	}

	if opts.text {
		for _, doc := range docs {
			fmt.Fprintf(out, "%s\n%s\n", doc.Filename, buildTextPreview(doc))
		}
		return nil
	}

	attachments, err := renderDocuments(docs, renderOptions{
		Letterhead: cfg.Letterhead,
		QRCode:     cfg.QRCode,
		Created:    base,
	})
	if err != nil {
		return err
	}
	if err := writeFiles(cfg.Output, attachments); err != nil {
		return err
	}

	if opts.mail {
		subject := fmt.Sprintf("Worksheets: %s (%s)", cfg.Worksheet.Title, cfg.Worksheet.Name)
		log.Printf("Mailing %d file(s) to %s", len(attachments), cfg.Email.To)
		if err := sendEmail(newDialer(cfg), cfg, subject, attachments...); err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
