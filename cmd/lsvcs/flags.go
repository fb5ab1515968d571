package main

import (
	"fmt"
	"strings"

	"github.com/chmouel/lsvcs/internal/buildinfo"
	"github.com/chmouel/lsvcs/internal/config"
	"github.com/chmouel/lsvcs/internal/git"
	"github.com/chmouel/lsvcs/internal/sorting"
	"github.com/chmouel/lsvcs/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

func init() {
	// -v selects version sorting, as in ls.
	urfavecli.VersionFlag = &urfavecli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	urfavecli.VersionPrinter = func(cmd *urfavecli.Command) {
		_, _ = fmt.Fprintln(cmd.Root().Writer, buildinfo.VersionString())
	}
}

// sortShorthands maps the single letter sort flags to their key, in the
// order they are checked.
var sortShorthands = []struct {
	flag string
	key  sorting.Key
}{
	{"no-sort", sorting.KeyNone},
	{"versionsort", sorting.KeyVersion},
	{"extensionsort", sorting.KeyExtension},
	{"timesort", sorting.KeyTime},
	{"sizesort", sorting.KeySize},
	{"gitsort", sorting.KeyStatus},
}

// globalFlags returns all flags of the lsvcs command.
// Note: --version is provided by urfave/cli via Command.Version.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Do not ignore entries starting with . and show . and ..",
		},
		&urfavecli.BoolFlag{
			Name:    "almost-all",
			Aliases: []string{"A"},
			Usage:   "Do not ignore entries starting with ., except . and ..",
		},
		&urfavecli.BoolFlag{
			Name:    "long",
			Aliases: []string{"l"},
			Usage:   "Show size and modification date",
		},
		&urfavecli.BoolFlag{
			Name:  "git",
			Usage: "Show the git status of each entry",
		},
		&urfavecli.StringFlag{
			Name:  "git-backend",
			Usage: "How git status is read: " + strings.Join(git.BackendNames(), ", "),
		},
		&urfavecli.StringFlag{
			Name:  "sort",
			Usage: "Sort by WORD: " + strings.Join(sorting.KeyNames(), ", "),
		},
		&urfavecli.BoolFlag{
			Name:    "timesort",
			Aliases: []string{"t"},
			Usage:   "Sort by modification time, newest first",
		},
		&urfavecli.BoolFlag{
			Name:    "sizesort",
			Aliases: []string{"S"},
			Usage:   "Sort by size, largest first",
		},
		&urfavecli.BoolFlag{
			Name:    "extensionsort",
			Aliases: []string{"X"},
			Usage:   "Sort by extension",
		},
		&urfavecli.BoolFlag{
			Name:    "versionsort",
			Aliases: []string{"v"},
			Usage:   "Natural sort of version numbers within names",
		},
		&urfavecli.BoolFlag{
			Name:    "no-sort",
			Aliases: []string{"U"},
			Usage:   "Do not sort, list entries in directory order",
		},
		&urfavecli.BoolFlag{
			Name:    "gitsort",
			Aliases: []string{"G"},
			Usage:   "Sort by git status",
		},
		&urfavecli.BoolFlag{
			Name:    "reverse",
			Aliases: []string{"r"},
			Usage:   "Reverse the order of the sort",
		},
		&urfavecli.StringFlag{
			Name:  "group-dirs",
			Usage: "Group directories: first, last or none",
		},
		&urfavecli.BoolFlag{
			Name:  "group-directories-first",
			Usage: "Same as --group-dirs=first",
		},
		&urfavecli.StringFlag{
			Name:  "icon",
			Usage: "When to print icons: always, auto or never",
		},
		&urfavecli.StringFlag{
			Name:  "color",
			Usage: "When to use terminal colors: always, auto or never",
		},
		&urfavecli.StringFlag{
			Name:  "theme",
			Usage: "Color theme: " + strings.Join(theme.AvailableThemes(), ", "),
		},
		&urfavecli.IntFlag{
			Name:  "max-name-length",
			Usage: "Truncate names longer than N, 0 disables truncation",
		},
		&urfavecli.StringFlag{
			Name:  "date-format",
			Usage: "Date format in long mode: relative, iso or a Go time layout",
		},
		&urfavecli.BoolFlag{
			Name:  "watch",
			Usage: "Keep running and list again when the directories change",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file, - for stderr",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lsvcs.key=value",
		},
	}
}

// applyFlags layers the command line on top of cfg. Only flags given on the
// command line change cfg.
func applyFlags(cfg *config.AppConfig, cmd *urfavecli.Command) error {
	switch {
	case cmd.Bool("all"):
		cfg.Display = "all"
	case cmd.Bool("almost-all"):
		cfg.Display = "almost-all"
	}
	if cmd.IsSet("long") {
		cfg.Long = cmd.Bool("long")
	}
	if cmd.IsSet("git") {
		cfg.GitStatus = cmd.Bool("git")
	}
	if cmd.IsSet("git-backend") {
		cfg.GitBackend = cmd.String("git-backend")
	}

	if cmd.IsSet("sort") {
		cfg.SortColumn = cmd.String("sort")
	} else {
		for _, s := range sortShorthands {
			if cmd.Bool(s.flag) {
				cfg.SortColumn = s.key.String()
				break
			}
		}
	}
	if cmd.IsSet("reverse") {
		cfg.SortReverse = cmd.Bool("reverse")
	}
	if cmd.Bool("group-directories-first") {
		cfg.DirGrouping = sorting.GroupFirst.String()
	}
	if cmd.IsSet("group-dirs") {
		cfg.DirGrouping = cmd.String("group-dirs")
	}

	if cmd.IsSet("icon") {
		cfg.Icons = cmd.String("icon")
	}
	if cmd.IsSet("color") {
		cfg.Color = cmd.String("color")
	}
	if name := cmd.String("theme"); name != "" {
		normalized := config.NormalizeThemeName(name)
		if normalized == "" {
			return fmt.Errorf("unknown theme %q", name)
		}
		cfg.Theme = normalized
	}
	if cmd.IsSet("max-name-length") {
		n := cmd.Int("max-name-length")
		if n < 0 {
			return fmt.Errorf("invalid --max-name-length %d", n)
		}
		cfg.MaxNameLength = n
	}
	if cmd.IsSet("date-format") {
		cfg.DateFormat = cmd.String("date-format")
	}
	return nil
}
