// Package main is the entry point for lsvcs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chmouel/lsvcs/internal/buildinfo"
	"github.com/chmouel/lsvcs/internal/config"
	"github.com/chmouel/lsvcs/internal/git"
	"github.com/chmouel/lsvcs/internal/listing"
	"github.com/chmouel/lsvcs/internal/log"
	"github.com/chmouel/lsvcs/internal/render"
	"github.com/chmouel/lsvcs/internal/sorting"
	"github.com/chmouel/lsvcs/internal/theme"
	"github.com/chmouel/lsvcs/internal/utils"
	"github.com/chmouel/lsvcs/internal/watch"
	"github.com/muesli/termenv"
	urfavecli "github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Exit statuses, as ls uses them.
const (
	exitOK      = 0
	exitTrouble = 2
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	err := a.command().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lsvcs: %v\n", err)
		os.Exit(exitTrouble)
	}
	os.Exit(a.status)
}

// app holds the streams and the exit status of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	status int
}

func (a *app) command() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                   "lsvcs",
		Usage:                  "List directory contents with their git status",
		ArgsUsage:              "[path...]",
		Version:                buildinfo.Version(),
		Flags:                  globalFlags(),
		UseShortOptionHandling: true,
		EnableShellCompletion:  true,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		Action:                 a.run,
	}
}

// run is the default action: list every path argument, then keep listing
// when --watch is given.
func (a *app) run(ctx context.Context, cmd *urfavecli.Command) error {
	// Set up debug logging before loading config
	if debugLog := cmd.String("debug-log"); debugLog != "" {
		a.openDebugLog(debugLog)
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(a.stderr, "lsvcs: error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if cmd.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			a.openDebugLog(cfg.DebugLog)
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(a.stderr, "lsvcs: error closing debug log: %v\n", err)
		}
	}()

	// Apply CLI config overrides, then the dedicated flags on top
	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return fmt.Errorf("applying config overrides: %w", err)
		}
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	lister, renderer, err := a.build(cfg)
	if err != nil {
		return err
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	listings, err := a.list(ctx, lister, renderer, paths)
	if err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}
	return a.watch(ctx, cfg, lister, renderer, paths, listings)
}

func (a *app) openDebugLog(path string) {
	if path != "-" {
		if expanded, err := utils.ExpandPath(path); err == nil {
			path = expanded
		}
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(a.stderr, "lsvcs: error opening debug log file %q: %v\n", path, err)
	}
}

func (a *app) notify(message, severity string) {
	log.Printf("%s: %s", severity, message)
	fmt.Fprintf(a.stderr, "lsvcs: %s: %s\n", severity, message)
}

// build turns the resolved configuration into a lister and a renderer.
func (a *app) build(cfg *config.AppConfig) (*listing.Lister, *render.Renderer, error) {
	key, err := sorting.ParseKey(cfg.SortColumn)
	if err != nil {
		return nil, nil, err
	}
	grouping, err := sorting.ParseDirGrouping(cfg.DirGrouping)
	if err != nil {
		return nil, nil, err
	}
	direction := sorting.Ascending
	if cfg.SortReverse {
		direction = sorting.Descending
	}
	display, err := listing.ParseDisplay(cfg.Display)
	if err != nil {
		return nil, nil, err
	}
	icons, err := render.ParseMode(cfg.Icons)
	if err != nil {
		return nil, nil, fmt.Errorf("icons: %w", err)
	}
	color, err := render.ParseMode(cfg.Color)
	if err != nil {
		return nil, nil, fmt.Errorf("color: %w", err)
	}

	var backend git.Backend
	if cfg.GitStatus {
		backend, err = git.NewBackend(cfg.GitBackend)
		if err != nil {
			return nil, nil, err
		}
	}

	comparator := sorting.Comparator{Key: key, Direction: direction, Grouping: grouping}
	log.Printf("options: sort=%s %s dirs=%s display=%s git=%t", key, direction, grouping, display, cfg.GitStatus)

	lister := listing.New(listing.Options{
		Display:    display,
		GitStatus:  cfg.GitStatus,
		Comparator: comparator,
		Backend:    backend,
		Notify:     a.notify,
	})
	renderer := render.New(a.stdout, render.Options{
		Long:          cfg.Long,
		GitStatus:     cfg.GitStatus,
		Icons:         icons,
		Color:         color,
		Theme:         theme.GetTheme(cfg.Theme),
		MaxNameLength: cfg.MaxNameLength,
		DateFormat:    cfg.DateFormat,
	})
	return lister, renderer, nil
}

// list renders every path argument. Unreadable arguments are reported and
// set the exit status, the others are still listed.
func (a *app) list(ctx context.Context, lister *listing.Lister, renderer *render.Renderer, paths []string) ([]*listing.Listing, error) {
	listings, errs := lister.ListAll(ctx, paths)
	for _, err := range errs {
		fmt.Fprintf(a.stderr, "lsvcs: %v\n", err)
		log.Printf("list: %v", err)
		a.status = exitTrouble
	}
	if len(errs) == 0 {
		a.status = exitOK
	}
	if err := renderer.RenderAll(listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// watch lists paths again each time the listed directories or their
// repositories change, until ctx is cancelled.
func (a *app) watch(ctx context.Context, cfg *config.AppConfig, lister *listing.Lister, renderer *render.Renderer, paths []string, listings []*listing.Listing) error {
	w, err := watch.New(cfg.WatchDebounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	for _, l := range listings {
		if l.Root != "" {
			if err := w.Add(l.Root); err != nil {
				log.Printf("watch: %s: %v", l.Root, err)
			}
		}
		for _, workdir := range l.Workdirs {
			w.AddRepository(workdir)
		}
	}
	if w.Watched() == 0 {
		_ = w.Close()
		return fmt.Errorf("nothing to watch")
	}

	clearScreen := render.IsTerminal(a.stdout)
	out := termenv.NewOutput(a.stdout)
	return w.Run(ctx, func(ctx context.Context) error {
		if clearScreen {
			out.ClearScreen()
		} else {
			fmt.Fprintln(a.stdout)
		}
		_, err := a.list(ctx, lister, renderer, paths)
		return err
	})
}
