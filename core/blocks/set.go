// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package blocks

import (
	"sort"
)

// Set represents the classic "set" data structure for Blocks. Members are
// keyed by block ID, so duplicates collapse by identity and a block can be
// removed with any value carrying the same ID.
type Set map[int]Block

// MakeSet creates and initializes a Set and populates it with the initial
// values as specified in the parameters.
func MakeSet(values ...Block) Set {
	set := make(Set, len(values))
	for _, b := range values {
		set[b.ID] = b
	}
	return set
}

// Add puts a block into the set.
func (s Set) Add(b Block) {
	s[b.ID] = b
}

// Remove takes a block out of the set. Removing a block not in the set is
// a no-op.
func (s Set) Remove(b Block) {
	delete(s, b.ID)
}

// Size returns the number of blocks in the set.
func (s Set) Size() int {
	return len(s)
}

// IsEmpty is true for empty or uninitialized sets.
func (s Set) IsEmpty() bool {
	return len(s) == 0
}

// Contains returns true if a block with the same identity is in the set.
func (s Set) Contains(b Block) bool {
	_, exists := s[b.ID]
	return exists
}

// ContainsID returns true if a block with the given ID is in the set.
func (s Set) ContainsID(id int) bool {
	_, exists := s[id]
	return exists
}

// Copy returns a new set containing the same blocks.
func (s Set) Copy() Set {
	result := make(Set, len(s))
	for id, b := range s {
		result[id] = b
	}
	return result
}

// Union returns a new set containing every block from both sets.
func (s Set) Union(other Set) Set {
	result := make(Set, len(s)+len(other))
	for id, b := range s {
		result[id] = b
	}
	for id, b := range other {
		result[id] = b
	}
	return result
}

// Equal reports whether both sets contain exactly the same blocks.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id, b := range s {
		if o, ok := other[id]; !ok || o != b {
			return false
		}
	}
	return true
}

// Values returns an unordered slice containing all the blocks in the set.
func (s Set) Values() []Block {
	result := make([]Block, 0, len(s))
	for _, b := range s {
		result = append(result, b)
	}
	return result
}

// SortedValues returns the blocks ordered by ID. Serialization and log
// output use this ordering so identical sets produce identical bytes.
func (s Set) SortedValues() []Block {
	values := s.Values()
	sort.Slice(values, func(i, j int) bool {
		return values[i].ID < values[j].ID
	})
	return values
}
