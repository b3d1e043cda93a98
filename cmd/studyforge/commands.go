package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/wordwrap"
	"github.com/urfave/cli/v2"

	"github.com/csheth/studyforge/internal/history"
	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/remotepdf"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

const wrapWidth = 80

func summarizeCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Usage:     "upload a PDF and print a summary of a page range",
		ArgsUsage: "FILE|URL",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start", Usage: "first page", Value: 1},
			&cli.IntFlag{Name: "end", Usage: "last page (default: min(10, page count))"},
			&cli.StringFlag{Name: "level", Usage: strings.Join(studyapi.AcademicLevels, ", "), Value: studyapi.LevelUndergraduate},
			&cli.BoolFlag{Name: "save", Usage: "append the summary to the history file"},
		},
		Action: s.summarize,
	}
}

func (s *session) summarize(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("summarize needs exactly one FILE or URL", 2)
	}
	level := c.String("level")
	if !slices.Contains(studyapi.AcademicLevels, level) {
		return cli.Exit(fmt.Sprintf("unknown level %q, want one of %s", level, strings.Join(studyapi.AcademicLevels, ", ")), 2)
	}

	path := c.Args().First()
	if remotepdf.IsURL(path) {
		if s.pdfs == nil {
			return cli.Exit("downloads need a --cache-dir", 2)
		}
		local, err := s.pdfs.Fetch(c.Context, path)
		if err != nil {
			return cli.Exit("Download failed: "+err.Error(), 1)
		}
		path = local
	}
	file, err := pdfinfo.Inspect(pdfinfo.CleanPath(path))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out := c.App.Writer
	if file.Pages > 0 {
		fmt.Fprintf(out, "Uploading %s (%d pages)\n", file.Name, file.Pages)
	} else {
		fmt.Fprintf(out, "Uploading %s\n", file.Name)
	}

	driver := workflow.NewDriver(s.client, s.log)
	state := driver.Dispatch(c.Context, workflow.FileSelected{File: file, Source: workflow.SourceBrowse})
	if state.Error.Visible {
		return cli.Exit(state.Error.Message, 1)
	}

	end := state.Form.PageEnd
	if c.IsSet("end") {
		end = c.Int("end")
	}
	state = driver.Dispatch(c.Context, workflow.GenerateSubmitted{
		PageStart:     c.Int("start"),
		PageEnd:       end,
		AcademicLevel: level,
	})
	if state.Error.Visible {
		return cli.Exit(state.Error.Message, 1)
	}
	results := state.Results
	if results == nil {
		return cli.Exit("Generation failed", 1)
	}

	fmt.Fprintf(out, "Document: %s (%d pages, %s)\n", state.FileInfo.Name, state.FileInfo.PageCount, state.FileInfo.Size)
	fmt.Fprintf(out, "Pages: %s\nLevel: %s\nTime: %s\n\n", results.Pages, results.Level, results.Time)
	fmt.Fprintln(out, wordwrap.String(results.Summary, wrapWidth))

	if c.Bool("save") {
		entry := history.NewEntry(*state.Document, results.Request, results.Result)
		if err := history.Append(s.cfg.HistoryPath, entry); err != nil {
			return cli.Exit(fmt.Sprintf("Save failed: %v", err), 1)
		}
		fmt.Fprintf(out, "\nSaved to %s\n", s.cfg.HistoryPath)
	}
	return nil
}

func healthCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that the backend is reachable",
		Action: func(c *cli.Context) error {
			health := s.client.HealthCheck(c.Context)
			if health == nil {
				return cli.Exit(fmt.Sprintf("backend unreachable at %s", s.client.BaseURL()), 1)
			}
			fmt.Fprintf(c.App.Writer, "status: %s\nversion: %s\nuptime: %ds\n", health.Status, health.Version, health.Uptime)
			return nil
		},
	}
}

func documentCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "document",
		Usage:     "show an uploaded document",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("document needs exactly one ID", 2)
			}
			doc, err := s.client.GetDocument(c.Context, studyapi.DocumentID(c.Args().First()))
			if err != nil {
				return s.requestExit(err)
			}
			out := c.App.Writer
			fmt.Fprintf(out, "id: %s\nfilename: %s\npages: %d\nsize: %s\n", doc.ID, doc.Filename, doc.PageCount, workflow.FormatFileSize(doc.FileSize))
			if doc.UploadDate != nil {
				fmt.Fprintf(out, "uploaded: %s\n", doc.UploadDate.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func contentCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "content",
		Usage:     "show previously generated material",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("content needs exactly one ID", 2)
			}
			id, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid content id %q", c.Args().First()), 2)
			}
			content, err := s.client.GetContent(c.Context, id)
			if err != nil {
				return s.requestExit(err)
			}
			out := c.App.Writer
			fmt.Fprintf(out, "Pages: %s\nLevel: %s\nTime: %s\nModel: %s\n\n",
				content.Pages,
				workflow.FormatAcademicLevel(content.AcademicLevel),
				workflow.FormatGenerationTime(content.GenerationTime),
				content.ModelUsed,
			)
			fmt.Fprintln(out, wordwrap.String(content.Summary(), wrapWidth))
			return nil
		},
	}
}

func historyCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list saved summaries",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "full", Usage: "print every summary in full"},
		},
		Action: func(c *cli.Context) error {
			entries, err := history.Load(s.cfg.HistoryPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("read history: %v", err), 1)
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.App.Writer, "No saved summaries.")
				return nil
			}
			if c.Bool("full") {
				printHistoryFull(c.App.Writer, entries)
				return nil
			}
			printHistoryTable(c.App.Writer, entries)
			return nil
		},
	}
}

func printHistoryTable(out io.Writer, entries []history.Entry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SAVED\tDOCUMENT\tFILE\tPAGES\tLEVEL")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.SavedAt.Format("2006-01-02 15:04"),
			entry.DocumentID,
			entry.Filename,
			workflow.FormatPages(entry.PageStart, entry.PageEnd),
			workflow.FormatAcademicLevel(entry.AcademicLevel),
		)
	}
	_ = w.Flush()
}

func printHistoryFull(out io.Writer, entries []history.Entry) {
	for idx, entry := range entries {
		if idx > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s pages %s (%s)\n", entry.Filename, workflow.FormatPages(entry.PageStart, entry.PageEnd), workflow.FormatAcademicLevel(entry.AcademicLevel))
		fmt.Fprintln(out, wordwrap.String(entry.Summary, wrapWidth))
	}
}

// requestExit turns a backend failure into a non-zero exit carrying the
// user-facing message. The full detail only goes to the log.
func (s *session) requestExit(err error) error {
	var reqErr *studyapi.RequestError
	if !errors.As(err, &reqErr) {
		return cli.Exit(err.Error(), 1)
	}
	s.log.Debug(reqErr.Detail())
	return cli.Exit(reqErr.Message, 1)
}
