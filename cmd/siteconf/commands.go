package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/eringen/siteconf"
	"github.com/eringen/siteconf/views"
)

var errUsage = errors.New("usage")

func siteconfEnvOr(name, fallback string) string {
	return siteconf.EnvOr(siteconf.EnvPrefix+name, fallback)
}

func defaultDB() string {
	return siteconfEnvOr("DB", "data/siteconf.db")
}

// loadConfig reads a config file and applies SITECONF_* overrides.
func loadConfig(path string) (*siteconf.SiteConfig, error) {
	cfg, err := siteconf.Load(path)
	if err != nil {
		return nil, err
	}
	if applied := siteconf.ApplyEnv(cfg, os.LookupEnv); len(applied) > 0 {
		logger.Debug().Strs("settings", applied).Msg("applied environment overrides")
	}
	return cfg, nil
}

func printProblems(w io.Writer, path string, err error) {
	for _, fe := range siteconf.FieldErrors(err) {
		fmt.Fprintf(w, "%s: %s: %s\n", path, fe.Name, fe.Msg)
	}
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	failed := 0
	for _, path := range args {
		cfg, err := loadConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed++
			continue
		}
		if err := siteconf.Validate(cfg); err != nil {
			printProblems(os.Stderr, path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func runShow(args []string) error {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	format := flags.String("format", "yaml", "output format: yaml, json or python")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return errUsage
	}
	cfg, err := loadConfig(flags.Arg(0))
	if err != nil {
		return err
	}
	return writeConfig(os.Stdout, cfg, *format)
}

func writeConfig(w io.Writer, cfg *siteconf.SiteConfig, format string) error {
	switch format {
	case "yaml":
		out, err := siteconf.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "python":
		return siteconf.WritePython(w, cfg)
	}
	return fmt.Errorf("unknown format %q", format)
}

func runExport(args []string) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	force := flags.Bool("force", false, "export even if the config is invalid")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return errUsage
	}
	path := flags.Arg(0)
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if err := siteconf.Validate(cfg); err != nil {
		printProblems(os.Stderr, path, err)
		if !*force {
			return fmt.Errorf("%s is invalid; use -force to export anyway", path)
		}
	}
	return siteconf.WritePython(os.Stdout, cfg)
}

func runImport(args []string) error {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	db := flags.String("db", defaultDB(), "revision database")
	note := flags.String("note", "", "revision note")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return errUsage
	}
	path := flags.Arg(0)
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if err := siteconf.Validate(cfg); err != nil {
		printProblems(os.Stderr, path, err)
		return fmt.Errorf("%s is invalid", path)
	}

	store, err := siteconf.NewStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	rev, err := store.SaveRevision(cfg, *note)
	if errors.Is(err, siteconf.ErrUnchanged) {
		logger.Info().Int64("revision", rev.ID).Msg("config unchanged, nothing to import")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info().Int64("revision", rev.ID).Str("checksum", rev.Checksum[:12]).Msg("imported")
	return nil
}

func runRevisions(args []string) error {
	flags := flag.NewFlagSet("revisions", flag.ContinueOnError)
	db := flags.String("db", defaultDB(), "revision database")
	if err := flags.Parse(args); err != nil || flags.NArg() != 0 {
		return errUsage
	}
	store, err := siteconf.NewStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	revs, err := store.ListRevisions()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tCHECKSUM\tNOTE")
	for _, r := range revs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Checksum[:12], r.Note)
	}
	return tw.Flush()
}

func runDiff(args []string) error {
	flags := flag.NewFlagSet("diff", flag.ContinueOnError)
	db := flags.String("db", defaultDB(), "revision database")
	if err := flags.Parse(args); err != nil || flags.NArg() != 2 {
		return errUsage
	}

	var store *siteconf.Store
	resolve := func(arg string) (*siteconf.SiteConfig, error) {
		if _, err := os.Stat(arg); err == nil {
			return loadConfig(arg)
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: not a file or revision number", arg)
		}
		if store == nil {
			if store, err = siteconf.NewStore(*db); err != nil {
				return nil, err
			}
		}
		rev, err := store.GetRevision(id)
		if errors.Is(err, siteconf.ErrNotFound) {
			return nil, fmt.Errorf("revision %d not found", id)
		}
		return rev.Config, err
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	a, err := resolve(flags.Arg(0))
	if err != nil {
		return err
	}
	b, err := resolve(flags.Arg(1))
	if err != nil {
		return err
	}
	for _, c := range siteconf.Diff(a, b) {
		switch c.Kind {
		case siteconf.Added:
			fmt.Printf("+ %s = %s\n", c.Name, c.New)
		case siteconf.Removed:
			fmt.Printf("- %s = %s\n", c.Name, c.Old)
		default:
			fmt.Printf("~ %s: %s -> %s\n", c.Name, c.Old, c.New)
		}
	}
	return nil
}

func runServe(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	app := siteconf.New(siteconf.ServerConfig{
		Addr:          siteconf.EnvOr("ADDR", ":3000"),
		DatabasePath:  defaultDB(),
		StaticDir:     siteconf.EnvOr("STATIC_DIR", "public"),
		AdminPassword: siteconf.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: siteconf.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  siteconf.EnvOr("COOKIE_SECURE", "") == "true",
	}, views.Default(), siteconf.WithLogger(logger))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
