package main

import (
	"archive/zip"
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cfgpkg "github.com/n1snt/ilogger/internal/config"
	pebblestore "github.com/n1snt/ilogger/internal/storage/pebble"
	logpkg "github.com/n1snt/ilogger/pkg/log"
	"github.com/n1snt/ilogger/pkg/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ilogger",
		Short: "ilogger store CLI",
		Long:  "ilogger is a capacity-bounded log record store. This CLI appends, inspects, and exports a store.",
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to a JSON or YAML config file")
	pf.String("data-dir", "", "data directory (default: per-OS location)")
	pf.String("key", "", "logical collection key")
	pf.Int("max-entries", 0, "capacity bound on stored records")
	pf.Int("flush-window-ms", 0, "debounce window in milliseconds")
	pf.String("fsync", "", "fsync mode: always|interval|never")
	pf.String("log-level", "", "log level: debug|info|warn|error")
	pf.String("log-format", "", "log format: text|json")

	appendCmd := &cobra.Command{
		Use:   "append",
		Short: "Append JSON records from stdin, one object per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			stampID, _ := cmd.Flags().GetBool("stamp-id")
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)

			appended := 0
			sc := bufio.NewScanner(os.Stdin)
			sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			for sc.Scan() {
				line := sc.Bytes()
				if len(line) == 0 {
					continue
				}
				var r store.Record
				if err := json.Unmarshal(line, &r); err != nil {
					return fmt.Errorf("line %d: %w", appended+1, err)
				}
				if stampID {
					r["ingest_id"] = uuid.NewString()
				}
				s.Append(r)
				appended++
			}
			if err := sc.Err(); err != nil {
				return err
			}
			// force the flush so ingest errors surface before exit
			n, err := s.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("appended %d records (%d stored)\n", appended, n)
			return nil
		},
	}
	appendCmd.Flags().Bool("stamp-id", false, "add a generated ingest_id field to each record")
	rootCmd.AddCommand(appendCmd)

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print all records as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)

			recs, err := s.GetAll(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			for _, r := range recs {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	rootCmd.AddCommand(dumpCmd)

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Print the stored record count",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)

			n, err := s.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
	rootCmd.AddCommand(countCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)
			return s.Clear(ctx)
		},
	}
	rootCmd.AddCommand(clearCmd)

	setMaxCmd := &cobra.Command{
		Use:   "set-max <n>",
		Short: "Update the capacity bound, trimming oldest records if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid limit %q", args[0])
			}
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)
			return s.SetMaxEntries(ctx, n)
		},
	}
	rootCmd.AddCommand(setMaxCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records to a zip archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer s.Close(ctx)

			recs, err := s.GetAll(ctx)
			if err != nil {
				return err
			}
			if err := writeExport(out, recs); err != nil {
				return err
			}
			fmt.Printf("exported %d records to %s\n", len(recs), out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "", "output zip path")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore builds a Store from config file, env overlay, and flags, in
// ascending precedence.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return nil, err
	}
	cfgpkg.FromEnv(&cfg)

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("key"); v != "" {
		cfg.Key = v
	}
	if v, _ := cmd.Flags().GetInt("max-entries"); v > 0 {
		cfg.MaxEntries = v
	}
	if v, _ := cmd.Flags().GetInt("flush-window-ms"); v > 0 {
		cfg.FlushWindowMs = v
	}
	if v, _ := cmd.Flags().GetString("fsync"); v != "" {
		cfg.Fsync = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	mode, err := pebblestore.ParseFsyncMode(cfg.Fsync)
	if err != nil {
		return nil, err
	}

	logger := buildLogger(cfg)
	logpkg.RedirectStdLog(logger)

	return store.Open(store.Options{
		DataDir:     cfg.DataDir,
		Key:         cfg.Key,
		MaxEntries:  cfg.MaxEntries,
		FlushWindow: time.Duration(cfg.FlushWindowMs) * time.Millisecond,
		Fsync:       mode,
		Logger:      logger,
	})
}

func buildLogger(cfg cfgpkg.Config) logpkg.Logger {
	level, err := logpkg.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logpkg.InfoLevel
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if cfg.LogFormat == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	return logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormatter(formatter),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
}

// writeExport writes records.json into a zip archive at path.
func writeExport(path string, recs []store.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	w, err := zw.Create("records.json")
	if err == nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(recs)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
