package git

import (
	"strings"

	"github.com/chmouel/lsvcs/internal/models"
)

// RawStatus is the set of status bits a backend reports for one path.
// The bits follow libgit2's git_status_t so several can be set at once,
// e.g. a file added to the index and later matched by .gitignore.
type RawStatus uint16

// Status bits.
const (
	IndexNew RawStatus = 1 << iota
	IndexModified
	IndexDeleted
	IndexRenamed
	IndexTypechange
	WtNew
	WtModified
	WtDeleted
	WtTypechange
	WtRenamed
	Ignored
	Conflicted
)

var rawStatusNames = []struct {
	bit  RawStatus
	name string
}{
	{IndexNew, "INDEX_NEW"},
	{IndexModified, "INDEX_MODIFIED"},
	{IndexDeleted, "INDEX_DELETED"},
	{IndexRenamed, "INDEX_RENAMED"},
	{IndexTypechange, "INDEX_TYPECHANGE"},
	{WtNew, "WT_NEW"},
	{WtModified, "WT_MODIFIED"},
	{WtDeleted, "WT_DELETED"},
	{WtTypechange, "WT_TYPECHANGE"},
	{WtRenamed, "WT_RENAMED"},
	{Ignored, "IGNORED"},
	{Conflicted, "CONFLICTED"},
}

// Has reports whether every bit of flag is set.
func (s RawStatus) Has(flag RawStatus) bool {
	return s&flag == flag
}

func (s RawStatus) String() string {
	if s == 0 {
		return "CURRENT"
	}
	var parts []string
	for _, n := range rawStatusNames {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Pair derives the index and working tree states from the raw bits.
// Each half tests its bits in a fixed priority order and the first hit wins.
func (s RawStatus) Pair() models.StatusPair {
	return models.StatusPair{
		Index:   s.indexState(),
		Workdir: s.workdirState(),
	}
}

func (s RawStatus) indexState() models.StatusCode {
	switch {
	case s.Has(IndexNew):
		return models.StatusNewInIndex
	case s.Has(IndexDeleted):
		return models.StatusDeleted
	case s.Has(IndexModified):
		return models.StatusModified
	case s.Has(IndexRenamed):
		return models.StatusRenamed
	case s.Has(IndexTypechange):
		return models.StatusTypechange
	default:
		return models.StatusUnmodified
	}
}

func (s RawStatus) workdirState() models.StatusCode {
	switch {
	case s.Has(Conflicted):
		return models.StatusConflicted
	case s.Has(Ignored):
		return models.StatusIgnored
	case s.Has(WtNew):
		return models.StatusNewInWorkdir
	case s.Has(WtDeleted):
		return models.StatusDeleted
	case s.Has(WtModified):
		return models.StatusModified
	case s.Has(WtRenamed):
		return models.StatusRenamed
	case s.Has(WtTypechange):
		return models.StatusTypechange
	default:
		return models.StatusUnmodified
	}
}
