package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/chmouel/lsvcs/internal/models"
	"github.com/chmouel/lsvcs/internal/versionsort"
)

// Comparator orders entries. The zero value keeps enumeration order.
type Comparator struct {
	Key       Key
	Direction Direction
	Grouping  DirGrouping
}

type sorter struct {
	reverse bool
	compare func(a, b *models.Entry) int
}

// sorters returns the comparisons applied in turn until one differs.
// Grouping is never reversed by the direction.
func (c Comparator) sorters() []sorter {
	var out []sorter
	switch c.Grouping {
	case GroupFirst:
		out = append(out, sorter{compare: dirsFirst})
	case GroupLast:
		out = append(out, sorter{reverse: true, compare: dirsFirst})
	}

	desc := c.Direction == Descending
	switch c.Key {
	case KeyName:
		out = append(out, sorter{reverse: desc, compare: byName})
	case KeySize:
		out = append(out, sorter{reverse: desc, compare: bySize})
	case KeyTime:
		out = append(out, sorter{reverse: desc, compare: byTime})
	case KeyExtension:
		out = append(out, sorter{reverse: desc, compare: byExtension})
	case KeyVersion:
		out = append(out, sorter{reverse: desc, compare: byVersion})
	case KeyStatus:
		out = append(out, sorter{reverse: desc, compare: byStatus})
	}
	return out
}

// Compare returns a negative number when a sorts before b, zero when their
// order is left to the enumeration order and a positive number otherwise.
func (c Comparator) Compare(a, b *models.Entry) int {
	return compareWith(c.sorters(), a, b)
}

// Func returns Compare with the sorter chain built once, for use with the
// slices and sort packages.
func (c Comparator) Func() func(a, b *models.Entry) int {
	sorters := c.sorters()
	return func(a, b *models.Entry) int {
		return compareWith(sorters, a, b)
	}
}

// Sort orders entries in place. The sort is stable: entries comparing equal,
// and every entry under KeyNone, keep their input order.
func (c Comparator) Sort(entries []*models.Entry) {
	if len(c.sorters()) == 0 {
		return
	}
	slices.SortStableFunc(entries, c.Func())
}

func compareWith(sorters []sorter, a, b *models.Entry) int {
	for _, s := range sorters {
		r := s.compare(a, b)
		if r == 0 {
			continue
		}
		if s.reverse {
			return -r
		}
		return r
	}
	return 0
}

func dirsFirst(a, b *models.Entry) int {
	switch {
	case a.IsDir && !b.IsDir:
		return -1
	case !a.IsDir && b.IsDir:
		return 1
	default:
		return 0
	}
}

// byName compares case-insensitively and falls back to the raw bytes.
func byName(a, b *models.Entry) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func byVersion(a, b *models.Entry) int {
	return versionsort.Compare(a.Name, b.Name)
}

// bySize puts the largest entries first.
func bySize(a, b *models.Entry) int {
	if c := cmp.Compare(b.Size, a.Size); c != 0 {
		return c
	}
	return byName(a, b)
}

// byTime puts the most recently modified entries first.
func byTime(a, b *models.Entry) int {
	if c := b.ModTime.Compare(a.ModTime); c != 0 {
		return c
	}
	return byName(a, b)
}

func byExtension(a, b *models.Entry) int {
	if c := strings.Compare(a.Extension, b.Extension); c != 0 {
		return c
	}
	return byName(a, b)
}

// byStatus puts unresolved entries first, then orders by status pair.
func byStatus(a, b *models.Entry) int {
	switch {
	case a.Status == nil && b.Status != nil:
		return -1
	case a.Status != nil && b.Status == nil:
		return 1
	case a.Status != nil && b.Status != nil:
		if c := a.Status.Compare(*b.Status); c != 0 {
			return c
		}
	}
	return byName(a, b)
}
