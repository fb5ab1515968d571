// Package sorting orders listing entries by a key, a direction and a
// directory grouping policy.
package sorting

import (
	"fmt"
	"strings"
)

// Key selects what entries are ordered by.
type Key int

// Sort keys.
const (
	KeyNone Key = iota
	KeyName
	KeySize
	KeyTime
	KeyExtension
	KeyVersion
	KeyStatus
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyName:      "name",
	KeySize:      "size",
	KeyTime:      "time",
	KeyExtension: "extension",
	KeyVersion:   "version",
	KeyStatus:    "git",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// KeyNames lists the accepted spellings for ParseKey.
func KeyNames() []string {
	return []string{"name", "size", "time", "extension", "version", "git", "none"}
}

// ParseKey converts a CLI or config value into a Key.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "":
		return KeyName, nil
	case "size":
		return KeySize, nil
	case "time", "date":
		return KeyTime, nil
	case "extension", "ext":
		return KeyExtension, nil
	case "version", "v":
		return KeyVersion, nil
	case "git", "status", "git-status":
		return KeyStatus, nil
	case "none":
		return KeyNone, nil
	default:
		return KeyNone, fmt.Errorf("invalid sort key %q (valid: %s)", s, strings.Join(KeyNames(), ", "))
	}
}

// Direction is the order applied to the key comparison.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection converts "ascending"/"descending" (or "asc"/"desc").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc", "":
		return Ascending, nil
	case "descending", "desc", "reverse":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q", s)
	}
}

// DirGrouping places directories relative to other entries.
type DirGrouping int

// Grouping policies.
const (
	GroupNone DirGrouping = iota
	GroupFirst
	GroupLast
)

func (g DirGrouping) String() string {
	switch g {
	case GroupFirst:
		return "first"
	case GroupLast:
		return "last"
	default:
		return "none"
	}
}

// ParseDirGrouping converts "first", "last" or "none".
func ParseDirGrouping(s string) (DirGrouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return GroupNone, nil
	case "first":
		return GroupFirst, nil
	case "last":
		return GroupLast, nil
	default:
		return GroupNone, fmt.Errorf("invalid directory grouping %q (valid: first, last, none)", s)
	}
}
