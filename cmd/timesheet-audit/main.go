package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/txsgcode/connectwise-manage/internal/config"
	"github.com/txsgcode/connectwise-manage/internal/report"
	"github.com/txsgcode/connectwise-manage/internal/timesheet"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// .env is optional; flags and real env vars win over it.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	fs := ff.NewFlagSet("timesheet-audit")
	var (
		dbHost      = fs.StringLong("db-host", "localhost", "Database host")
		dbPort      = fs.IntLong("db-port", 5432, "Database port")
		dbUser      = fs.StringLong("db-user", "", "Database user")
		dbPassword  = fs.StringLong("db-password", "", "Database password")
		dbName      = fs.StringLong("db-name", "", "Database name")
		dbSSLMode   = fs.StringLong("db-sslmode", "disable", "Database sslmode: disable, require, verify-ca or verify-full")
		weeksAgo    = fs.IntLong("weeks-ago", 1, "Audit the reporting period this many weeks back (0 = current period)")
		member      = fs.StringLong("member", "", "Restrict the audit to one member ID")
		tz          = fs.StringLong("tz", "", "Timezone for entry display times (default: system local)")
		format      = fs.StringLong("format", "table", "Output format: table, csv, html or xlsx")
		out         = fs.StringLong("out", "", "Write the report to this file instead of stdout")
		serve       = fs.BoolLong("serve", "Serve the report over HTTP instead of running once")
		port        = fs.IntLong("port", 8080, "HTTP server port (with --serve)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TIMESHEET_AUDIT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if err := setLogLevel(*logLevel, level); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Config{
		DBHost:     *dbHost,
		DBPort:     *dbPort,
		DBUser:     *dbUser,
		DBPassword: *dbPassword,
		DBName:     *dbName,
		DBSSLMode:  *dbSSLMode,
		WeeksAgo:   *weeksAgo,
		Member:     *member,
		Timezone:   *tz,
		Format:     *format,
		Out:        *out,
		Serve:      *serve,
		Port:       *port,
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := timesheet.Open(ctx, cfg.ConnString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	loc, _ := cfg.Location()
	service := timesheet.NewService(store, store, loc)

	if cfg.Serve {
		runner := report.RunnerFunc(func(ctx context.Context, weeksAgo int, member string) (*report.Report, error) {
			return service.Run(ctx, weeksAgo, member)
		})
		server := report.NewServer(runner, cfg.WeeksAgo, cfg.Member)
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	rep, err := service.Run(ctx, cfg.WeeksAgo, cfg.Member)
	if err != nil {
		slog.Error("audit failed", "error", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			slog.Error("failed to create output file", "path", cfg.Out, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := render(rep, cfg.Format, w); err != nil {
		slog.Error("failed to render report", "format", cfg.Format, "error", err)
		os.Exit(1)
	}
}

func render(rep *report.Report, format string, w io.Writer) error {
	switch format {
	case "csv":
		return rep.WriteCSV(w)
	case "html":
		return rep.WriteHTML(w)
	case "xlsx":
		return rep.WriteXLSX(w)
	default:
		return rep.WriteTable(w)
	}
}

func setLogLevel(level string, logLevel *slog.LevelVar) error {
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		return fmt.Errorf("log level must be one of (debug, info, warn, error), got %s", level)
	}
	return nil
}
