// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocks

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Level identifies the class of operation a block restricts. Ordinals are
// stable: they index the precomputed per-level views of a snapshot and
// determine the position of each level in the wire bitmask. Adding a level
// is a wire format change, not a runtime operation.
type Level int

const (
	// Read restricts document and search reads.
	Read Level = iota

	// Write restricts document writes.
	Write

	// MetadataRead restricts reads of resource metadata.
	MetadataRead

	// MetadataWrite restricts changes to resource metadata.
	MetadataWrite
)

// NumLevels is the size of the closed Level enumeration.
const NumLevels = 4

// AllLevels returns every supported level in ordinal order.
func AllLevels() []Level {
	return []Level{Read, Write, MetadataRead, MetadataWrite}
}

var levelNames = map[Level]string{
	Read:          "read",
	Write:         "write",
	MetadataRead:  "metadata_read",
	MetadataWrite: "metadata_write",
}

// String returns the humanly readable level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("<unknown level %d>", int(l))
}

// ParseLevel returns the level with the given name.
func ParseLevel(name string) (Level, error) {
	for level, known := range levelNames {
		if known == name {
			return level, nil
		}
	}
	return 0, errors.NotValidf("block level %q", name)
}

// LevelSet is a set of levels represented as a bitmask, one bit per level
// ordinal. The zero value is the empty set. The mask is serialized as a
// single byte and is part of the wire contract.
type LevelSet uint8

// Levels returns a LevelSet containing the given levels.
func Levels(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		s |= 1 << uint(l)
	}
	return s
}

// AllLevelsSet restricts every operation class.
var AllLevelsSet = Levels(Read, Write, MetadataRead, MetadataWrite)

// Contains reports whether l is in the set.
func (s LevelSet) Contains(l Level) bool {
	return s&(1<<uint(l)) != 0
}

// IsEmpty reports whether no levels are set.
func (s LevelSet) IsEmpty() bool {
	return s == 0
}

// Slice returns the contained levels in ordinal order.
func (s LevelSet) Slice() []Level {
	var result []Level
	for _, l := range AllLevels() {
		if s.Contains(l) {
			result = append(result, l)
		}
	}
	return result
}

// String returns the contained level names joined by ",".
func (s LevelSet) String() string {
	names := make([]string, 0, NumLevels)
	for _, l := range s.Slice() {
		names = append(names, l.String())
	}
	return strings.Join(names, ",")
}
