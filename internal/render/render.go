// Package render writes listings to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lsvcs/internal/listing"
	"github.com/chmouel/lsvcs/internal/models"
	"github.com/chmouel/lsvcs/internal/theme"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode is an always/never/auto switch for colours and icons.
type Mode int

// Modes.
const (
	ModeAuto Mode = iota
	ModeAlways
	ModeNever
)

func (m Mode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode converts "always", "never" or "auto".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ModeAuto, nil
	case "always", "yes", "force":
		return ModeAlways, nil
	case "never", "no", "none":
		return ModeNever, nil
	default:
		return ModeAuto, fmt.Errorf("invalid mode %q (valid: always, never, auto)", s)
	}
}

// Enabled resolves the mode against whether the output is a terminal.
func (m Mode) Enabled(tty bool) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return tty
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// Date formats accepted besides Go layouts.
const (
	DateRelative = "relative"
	DateISO      = "iso"
	defaultDate  = "2006-01-02 15:04"
)

const (
	nameTail  = "…"
	largeSize = 1 << 20
)

// Options configures a Renderer.
type Options struct {
	Long          bool
	GitStatus     bool
	Icons         Mode
	Color         Mode
	Theme         *theme.Theme
	MaxNameLength int
	DateFormat    string
	// Now anchors relative dates. Defaults to time.Now.
	Now func() time.Time
}

// Renderer writes listings with a fixed set of options.
type Renderer struct {
	opts   Options
	out    io.Writer
	icons  bool
	styles styles
}

type styles struct {
	renderer *lipgloss.Renderer
	dir      lipgloss.Style
	symlink  lipgloss.Style
	file     lipgloss.Style
	muted    lipgloss.Style
	size     lipgloss.Style
	large    lipgloss.Style
	header   lipgloss.Style
}

// New returns a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	if opts.Theme == nil {
		opts.Theme = theme.Dracula()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tty := IsTerminal(w)
	lr := lipgloss.NewRenderer(w)
	switch {
	case !opts.Color.Enabled(tty):
		lr.SetColorProfile(termenv.Ascii)
	case opts.Color == ModeAlways && !tty:
		lr.SetColorProfile(termenv.TrueColor)
	}

	th := opts.Theme
	return &Renderer{
		opts:  opts,
		out:   w,
		icons: opts.Icons.Enabled(tty),
		styles: styles{
			renderer: lr,
			dir:      lr.NewStyle().Foreground(th.Dir).Bold(true),
			symlink:  lr.NewStyle().Foreground(th.Symlink),
			file:     lr.NewStyle().Foreground(th.File),
			muted:    lr.NewStyle().Foreground(th.MutedFg),
			size:     lr.NewStyle().Foreground(th.SizeFg),
			large:    lr.NewStyle().Foreground(th.SizeLarge),
			header:   lr.NewStyle().Bold(true),
		},
	}
}

// RenderAll writes several listings the way ls does: file arguments first,
// then each directory under a "path:" header when more than one is shown.
func (r *Renderer) RenderAll(listings []*listing.Listing) error {
	var files, dirs []*listing.Listing
	for _, l := range listings {
		if l.IsDir {
			dirs = append(dirs, l)
		} else {
			files = append(files, l)
		}
	}

	headers := len(listings) > 1
	first := true
	for _, l := range files {
		if err := r.Render(l); err != nil {
			return err
		}
		first = false
	}
	for _, l := range dirs {
		if headers {
			if !first {
				if _, err := fmt.Fprintln(r.out); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(r.out, r.styles.header.Render(l.Path+":")); err != nil {
				return err
			}
		}
		if err := r.Render(l); err != nil {
			return err
		}
		first = false
	}
	return nil
}

// Render writes the entries of one listing, one per line.
func (r *Renderer) Render(l *listing.Listing) error {
	sizeWidth := 0
	if r.opts.Long {
		for _, e := range l.Entries {
			sizeWidth = max(sizeWidth, len(r.sizeText(e)))
		}
	}

	var b strings.Builder
	for _, e := range l.Entries {
		r.writeEntry(&b, e, sizeWidth)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) writeEntry(b *strings.Builder, e *models.Entry, sizeWidth int) {
	if r.opts.GitStatus {
		b.WriteString(r.Status(e))
		b.WriteByte(' ')
	}
	if r.opts.Long {
		text := r.sizeText(e)
		pad := strings.Repeat(" ", sizeWidth-len(text))
		style := r.styles.size
		if e.Size >= largeSize && !e.IsDir {
			style = r.styles.large
		}
		b.WriteString(pad + style.Render(text))
		b.WriteByte(' ')
		b.WriteString(r.styles.muted.Render(r.dateText(e.ModTime)))
		b.WriteByte(' ')
	}
	if r.icons {
		if icon := deviconForName(e.Name, e.IsDir); icon != "" {
			b.WriteString(r.nameStyle(e).Render(icon))
			b.WriteByte(' ')
		}
	}
	b.WriteString(r.nameStyle(e).Render(r.nameText(e.Name)))
	b.WriteByte('\n')
}

// Status returns the two-symbol status column of an entry. Unresolved
// entries get a blank column.
func (r *Renderer) Status(e *models.Entry) string {
	if e.Status == nil {
		return "  "
	}
	th := r.opts.Theme
	index := r.styles.renderer.NewStyle().Foreground(th.StatusColor(e.Status.Index))
	workdir := r.styles.renderer.NewStyle().Foreground(th.StatusColor(e.Status.Workdir))
	return index.Render(e.Status.Index.Symbol()) + workdir.Render(e.Status.Workdir.Symbol())
}

func (r *Renderer) nameStyle(e *models.Entry) lipgloss.Style {
	switch {
	case e.IsSymlink:
		return r.styles.symlink
	case e.IsDir:
		return r.styles.dir
	default:
		return r.styles.file
	}
}

func (r *Renderer) nameText(name string) string {
	if r.opts.MaxNameLength <= 0 {
		return name
	}
	return truncate.StringWithTail(name, uint(r.opts.MaxNameLength), nameTail) //nolint:gosec
}

func (r *Renderer) sizeText(e *models.Entry) string {
	if e.IsDir {
		return "-"
	}
	return humanize.IBytes(uint64(max(e.Size, 0))) //nolint:gosec
}

func (r *Renderer) dateText(t time.Time) string {
	switch r.opts.DateFormat {
	case DateRelative:
		return humanize.RelTime(t, r.opts.Now(), "ago", "from now")
	case DateISO:
		if r.opts.Now().Sub(t) < 180*24*time.Hour {
			return t.Format("01-02 15:04")
		}
		return t.Format("2006-01-02")
	case "":
		return t.Format(defaultDate)
	default:
		return t.Format(r.opts.DateFormat)
	}
}
