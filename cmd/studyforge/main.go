package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/csheth/studyforge/internal/config"
	"github.com/csheth/studyforge/internal/logging"
	"github.com/csheth/studyforge/internal/remotepdf"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/tui"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
	}
	if err := newApp(config.Load()).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session holds what every command needs once the flags are parsed.
type session struct {
	cfg    config.Config
	log    *logrus.Logger
	client *studyapi.Client
	pdfs   *remotepdf.Cache
	closer io.Closer
}

func newApp(defaults config.Config) *cli.App {
	s := &session{}
	return &cli.App{
		Name:    "studyforge",
		Usage:   "upload a PDF and generate a study summary",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "backend root URL",
				Value:   defaults.BaseURL,
				EnvVars: []string{config.EnvBaseURL},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "diagnostic log file",
				Value:   defaults.LogFile,
				EnvVars: []string{config.EnvLogFile},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "trace, debug, info, warn or error",
				Value:   defaults.LogLevel,
				EnvVars: []string{config.EnvLogLevel},
			},
			&cli.StringFlag{
				Name:    "history",
				Usage:   "file that saved summaries are appended to",
				Value:   defaults.HistoryPath,
				EnvVars: []string{config.EnvHistory},
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "where PDFs given by URL are downloaded",
				Value:   defaults.CacheDir,
				EnvVars: []string{config.EnvCacheDir},
			},
			&cli.BoolFlag{
				Name:  "no-alt-screen",
				Usage: "disable the alternate screen buffer",
				Value: !defaults.AltScreen,
			},
		},
		Before: s.open,
		After:  s.close,
		Action: s.runTUI,
		Commands: []*cli.Command{
			summarizeCommand(s),
			healthCommand(s),
			documentCommand(s),
			contentCommand(s),
			historyCommand(s),
		},
	}
}

func (s *session) open(c *cli.Context) error {
	s.cfg = config.Config{
		BaseURL:     c.String("base-url"),
		HistoryPath: c.String("history"),
		LogFile:     c.String("log-file"),
		LogLevel:    c.String("log-level"),
		AltScreen:   !c.Bool("no-alt-screen"),
		CacheDir:    c.String("cache-dir"),
	}
	if err := s.cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	var out io.Writer = io.Discard
	if s.cfg.LogFile != "" {
		file, err := logging.OpenFile(s.cfg.LogFile)
		if err != nil {
			return cli.Exit(fmt.Sprintf("open log file: %v", err), 2)
		}
		s.closer = file
		out = file
	}
	s.log = logging.New(s.cfg.LogLevel, out)

	client, err := studyapi.New(studyapi.Config{
		BaseURL:   s.cfg.BaseURL,
		Logger:    s.log,
		UserAgent: "studyforge/" + Version,
	})
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	s.client = client

	if s.cfg.CacheDir != "" {
		pdfs, err := remotepdf.New(s.cfg.CacheDir, nil, s.log)
		if err != nil {
			return cli.Exit(fmt.Sprintf("open pdf cache: %v", err), 2)
		}
		s.pdfs = pdfs
	}
	s.log.WithFields(logrus.Fields{"base_url": s.cfg.BaseURL, "command": c.Args().First()}).Debug("session started")
	return nil
}

func (s *session) close(*cli.Context) error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// downloader avoids handing the TUI a typed nil when no cache is configured.
func (s *session) downloader() tui.Downloader {
	if s.pdfs == nil {
		return nil
	}
	return s.pdfs
}

func (s *session) runTUI(c *cli.Context) error {
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if s.cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			API:         s.client,
			Downloader:  s.downloader(),
			BaseURL:     s.client.BaseURL(),
			HistoryPath: s.cfg.HistoryPath,
			Logger:      s.log,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		s.log.WithError(err).Error("program error")
		return cli.Exit(fmt.Sprintf("program error: %v", err), 1)
	}
	return nil
}
