// Package theme provides the colour palettes used to render listings.
package theme

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lsvcs/internal/models"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Theme defines every colour used in a listing.
type Theme struct {
	Dir       lipgloss.Color
	Symlink   lipgloss.Color
	File      lipgloss.Color
	MutedFg   lipgloss.Color // dates, separators, clean status
	SizeFg    lipgloss.Color
	SizeLarge lipgloss.Color // sizes of a megabyte and above

	New        lipgloss.Color
	Modified   lipgloss.Color
	Deleted    lipgloss.Color
	Renamed    lipgloss.Color
	Typechange lipgloss.Color
	Conflicted lipgloss.Color
	Ignored    lipgloss.Color
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	SolarizedDarkName   = "solarized-dark"
	SolarizedLightName  = "solarized-light"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	NordName            = "nord"
	MonokaiName         = "monokai"
	CatppuccinMochaName = "catppuccin-mocha"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#BD93F9"),
		Symlink:    lipgloss.Color("#8BE9FD"),
		File:       lipgloss.Color("#F8F8F2"),
		MutedFg:    lipgloss.Color("#6272A4"),
		SizeFg:     lipgloss.Color("#F1FA8C"),
		SizeLarge:  lipgloss.Color("#FFB86C"),
		New:        lipgloss.Color("#50FA7B"),
		Modified:   lipgloss.Color("#FFB86C"),
		Deleted:    lipgloss.Color("#FF5555"),
		Renamed:    lipgloss.Color("#FF79C6"),
		Typechange: lipgloss.Color("#F1FA8C"),
		Conflicted: lipgloss.Color("#FF5555"),
		Ignored:    lipgloss.Color("#44475A"),
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#7C3AED"),
		Symlink:    lipgloss.Color("#0891B2"),
		File:       lipgloss.Color("#24292F"),
		MutedFg:    lipgloss.Color("#6E7781"),
		SizeFg:     lipgloss.Color("#CA8A04"),
		SizeLarge:  lipgloss.Color("#D97706"),
		New:        lipgloss.Color("#059669"),
		Modified:   lipgloss.Color("#D97706"),
		Deleted:    lipgloss.Color("#DC2626"),
		Renamed:    lipgloss.Color("#DB2777"),
		Typechange: lipgloss.Color("#CA8A04"),
		Conflicted: lipgloss.Color("#DC2626"),
		Ignored:    lipgloss.Color("#D0D7DE"),
	}
}

// SolarizedDark returns the Solarized dark theme.
func SolarizedDark() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#268BD2"),
		Symlink:    lipgloss.Color("#2AA198"),
		File:       lipgloss.Color("#EEE8D5"),
		MutedFg:    lipgloss.Color("#586E75"),
		SizeFg:     lipgloss.Color("#B58900"),
		SizeLarge:  lipgloss.Color("#CB4B16"),
		New:        lipgloss.Color("#859900"),
		Modified:   lipgloss.Color("#B58900"),
		Deleted:    lipgloss.Color("#DC322F"),
		Renamed:    lipgloss.Color("#D33682"),
		Typechange: lipgloss.Color("#6C71C4"),
		Conflicted: lipgloss.Color("#DC322F"),
		Ignored:    lipgloss.Color("#073642"),
	}
}

// SolarizedLight returns the Solarized light theme.
func SolarizedLight() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#268BD2"),
		Symlink:    lipgloss.Color("#2AA198"),
		File:       lipgloss.Color("#073642"),
		MutedFg:    lipgloss.Color("#93A1A1"),
		SizeFg:     lipgloss.Color("#B58900"),
		SizeLarge:  lipgloss.Color("#CB4B16"),
		New:        lipgloss.Color("#859900"),
		Modified:   lipgloss.Color("#B58900"),
		Deleted:    lipgloss.Color("#DC322F"),
		Renamed:    lipgloss.Color("#D33682"),
		Typechange: lipgloss.Color("#6C71C4"),
		Conflicted: lipgloss.Color("#DC322F"),
		Ignored:    lipgloss.Color("#E4DDC7"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#83A598"),
		Symlink:    lipgloss.Color("#8EC07C"),
		File:       lipgloss.Color("#EBDBB2"),
		MutedFg:    lipgloss.Color("#928374"),
		SizeFg:     lipgloss.Color("#FABD2F"),
		SizeLarge:  lipgloss.Color("#FE8019"),
		New:        lipgloss.Color("#B8BB26"),
		Modified:   lipgloss.Color("#FABD2F"),
		Deleted:    lipgloss.Color("#FB4934"),
		Renamed:    lipgloss.Color("#D3869B"),
		Typechange: lipgloss.Color("#FE8019"),
		Conflicted: lipgloss.Color("#FB4934"),
		Ignored:    lipgloss.Color("#504945"),
	}
}

// GruvboxLight returns the Gruvbox light theme.
func GruvboxLight() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#076678"),
		Symlink:    lipgloss.Color("#427B58"),
		File:       lipgloss.Color("#3C3836"),
		MutedFg:    lipgloss.Color("#7C6F64"),
		SizeFg:     lipgloss.Color("#B57614"),
		SizeLarge:  lipgloss.Color("#AF3A03"),
		New:        lipgloss.Color("#79740E"),
		Modified:   lipgloss.Color("#D79921"),
		Deleted:    lipgloss.Color("#9D0006"),
		Renamed:    lipgloss.Color("#B16286"),
		Typechange: lipgloss.Color("#AF3A03"),
		Conflicted: lipgloss.Color("#9D0006"),
		Ignored:    lipgloss.Color("#D5C4A1"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#81A1C1"),
		Symlink:    lipgloss.Color("#88C0D0"),
		File:       lipgloss.Color("#E5E9F0"),
		MutedFg:    lipgloss.Color("#4C566A"),
		SizeFg:     lipgloss.Color("#EBCB8B"),
		SizeLarge:  lipgloss.Color("#D08770"),
		New:        lipgloss.Color("#A3BE8C"),
		Modified:   lipgloss.Color("#EBCB8B"),
		Deleted:    lipgloss.Color("#BF616A"),
		Renamed:    lipgloss.Color("#B48EAD"),
		Typechange: lipgloss.Color("#D08770"),
		Conflicted: lipgloss.Color("#BF616A"),
		Ignored:    lipgloss.Color("#434C5E"),
	}
}

// Monokai returns the Monokai theme.
func Monokai() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#66D9EF"),
		Symlink:    lipgloss.Color("#AE81FF"),
		File:       lipgloss.Color("#F8F8F2"),
		MutedFg:    lipgloss.Color("#75715E"),
		SizeFg:     lipgloss.Color("#E6DB74"),
		SizeLarge:  lipgloss.Color("#FD971F"),
		New:        lipgloss.Color("#A6E22E"),
		Modified:   lipgloss.Color("#FD971F"),
		Deleted:    lipgloss.Color("#F92672"),
		Renamed:    lipgloss.Color("#AE81FF"),
		Typechange: lipgloss.Color("#E6DB74"),
		Conflicted: lipgloss.Color("#F92672"),
		Ignored:    lipgloss.Color("#3E3D32"),
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Dir:        lipgloss.Color("#89B4FA"),
		Symlink:    lipgloss.Color("#89DCEB"),
		File:       lipgloss.Color("#CDD6F4"),
		MutedFg:    lipgloss.Color("#6C7086"),
		SizeFg:     lipgloss.Color("#F9E2AF"),
		SizeLarge:  lipgloss.Color("#FAB387"),
		New:        lipgloss.Color("#A6E3A1"),
		Modified:   lipgloss.Color("#F9E2AF"),
		Deleted:    lipgloss.Color("#F38BA8"),
		Renamed:    lipgloss.Color("#F5C2E7"),
		Typechange: lipgloss.Color("#FAB387"),
		Conflicted: lipgloss.Color("#F38BA8"),
		Ignored:    lipgloss.Color("#45475A"),
	}
}

// StatusColor returns the colour of a status symbol.
func (t *Theme) StatusColor(code models.StatusCode) lipgloss.Color {
	switch code {
	case models.StatusNewInIndex, models.StatusNewInWorkdir:
		return t.New
	case models.StatusModified:
		return t.Modified
	case models.StatusDeleted:
		return t.Deleted
	case models.StatusRenamed:
		return t.Renamed
	case models.StatusTypechange:
		return t.Typechange
	case models.StatusConflicted:
		return t.Conflicted
	case models.StatusIgnored:
		return t.Ignored
	default:
		return t.MutedFg
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaLightName:
		return DraculaLight()
	case SolarizedDarkName:
		return SolarizedDark()
	case SolarizedLightName:
		return SolarizedLight()
	case GruvboxDarkName:
		return GruvboxDark()
	case GruvboxLightName:
		return GruvboxLight()
	case NordName:
		return Nord()
	case MonokaiName:
		return Monokai()
	case CatppuccinMochaName:
		return CatppuccinMocha()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case DraculaLightName, SolarizedLightName, GruvboxLightName:
		return true
	default:
		return false
	}
}

// IsValid reports whether name is a known theme.
func IsValid(name string) bool {
	for _, n := range AvailableThemes() {
		if n == name {
			return true
		}
	}
	return false
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return DraculaLightName
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		SolarizedDarkName,
		SolarizedLightName,
		GruvboxDarkName,
		GruvboxLightName,
		NordName,
		MonokaiName,
		CatppuccinMochaName,
	}
}

// ErrNoTerminal is returned by DetectBackground when stdout is not a terminal.
var ErrNoTerminal = errors.New("stdout is not a terminal")

// DetectBackground asks the terminal for its background colour and returns
// the matching default theme name. Terminals that do not answer within
// timeout yield an error.
func DetectBackground(timeout time.Duration) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec
		return "", ErrNoTerminal
	}
	return detectWith(termenv.HasDarkBackground, timeout)
}

func detectWith(query func() bool, timeout time.Duration) (string, error) {
	result := make(chan bool, 1)
	go func() { result <- query() }()

	select {
	case dark := <-result:
		if dark {
			return DefaultDark(), nil
		}
		return DefaultLight(), nil
	case <-time.After(timeout):
		return "", errors.New("terminal background query timed out")
	}
}
