package models

// StatusCode is the version-control state of a path in one staging area.
type StatusCode uint8

// Status codes. The declaration order carries no meaning, use Rank.
const (
	StatusDefault StatusCode = iota
	StatusUnmodified
	StatusIgnored
	StatusNewInIndex
	StatusNewInWorkdir
	StatusTypechange
	StatusDeleted
	StatusRenamed
	StatusModified
	StatusConflicted
)

// statusRanks is the total order of status codes, weakest first.
// Directory roll-up keeps the highest ranked code of its contents.
var statusRanks = map[StatusCode]int{
	StatusDefault:      0,
	StatusUnmodified:   1,
	StatusIgnored:      2,
	StatusNewInIndex:   3,
	StatusNewInWorkdir: 4,
	StatusTypechange:   5,
	StatusDeleted:      6,
	StatusRenamed:      7,
	StatusModified:     8,
	StatusConflicted:   9,
}

var statusNames = map[StatusCode]string{
	StatusDefault:      "default",
	StatusUnmodified:   "unmodified",
	StatusIgnored:      "ignored",
	StatusNewInIndex:   "new-in-index",
	StatusNewInWorkdir: "new-in-workdir",
	StatusTypechange:   "typechange",
	StatusDeleted:      "deleted",
	StatusRenamed:      "renamed",
	StatusModified:     "modified",
	StatusConflicted:   "conflicted",
}

var statusSymbols = map[StatusCode]string{
	StatusDefault:      "-",
	StatusUnmodified:   "-",
	StatusIgnored:      "I",
	StatusNewInIndex:   "N",
	StatusNewInWorkdir: "?",
	StatusTypechange:   "T",
	StatusDeleted:      "D",
	StatusRenamed:      "R",
	StatusModified:     "M",
	StatusConflicted:   "C",
}

// AllStatusCodes returns every status code ordered by rank.
func AllStatusCodes() []StatusCode {
	return []StatusCode{
		StatusDefault,
		StatusUnmodified,
		StatusIgnored,
		StatusNewInIndex,
		StatusNewInWorkdir,
		StatusTypechange,
		StatusDeleted,
		StatusRenamed,
		StatusModified,
		StatusConflicted,
	}
}

// Rank returns the position of the code in the status order.
// Unknown codes rank below StatusDefault.
func (c StatusCode) Rank() int {
	if r, ok := statusRanks[c]; ok {
		return r
	}
	return -1
}

// Compare returns -1, 0 or +1 depending on the rank of c relative to o.
func (c StatusCode) Compare(o StatusCode) int {
	rc, ro := c.Rank(), o.Rank()
	switch {
	case rc < ro:
		return -1
	case rc > ro:
		return 1
	default:
		return 0
	}
}

// MaxStatus returns the higher ranked of two codes.
func MaxStatus(a, b StatusCode) StatusCode {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return "unknown"
}

// Symbol is the one-character marker shown in the status column.
func (c StatusCode) Symbol() string {
	if sym, ok := statusSymbols[c]; ok {
		return sym
	}
	return "-"
}

// StatusPair holds the index and working tree state of a path.
// The zero value is {StatusDefault, StatusDefault}.
type StatusPair struct {
	Index   StatusCode
	Workdir StatusCode
}

// Max combines two pairs componentwise.
func (p StatusPair) Max(o StatusPair) StatusPair {
	return StatusPair{
		Index:   MaxStatus(p.Index, o.Index),
		Workdir: MaxStatus(p.Workdir, o.Workdir),
	}
}

// Compare orders pairs by index state, then working tree state.
func (p StatusPair) Compare(o StatusPair) int {
	if c := p.Index.Compare(o.Index); c != 0 {
		return c
	}
	return p.Workdir.Compare(o.Workdir)
}

// IsDefault reports whether no status information is held.
func (p StatusPair) IsDefault() bool {
	return p.Index == StatusDefault && p.Workdir == StatusDefault
}

func (p StatusPair) String() string {
	return p.Index.Symbol() + p.Workdir.Symbol()
}
