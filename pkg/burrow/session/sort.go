package session

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// Sort orders entries in place. Name order is case-insensitive; size
// order is largest first with ties by name; any other order leaves scan
// completion order untouched.
func Sort(entries []types.FileEntry, order string) {
	switch order {
	case config.SortName:
		slices.SortStableFunc(entries, byName)
	case config.SortSize:
		slices.SortStableFunc(entries, func(a, b types.FileEntry) int {
			if c := cmp.Compare(b.Size, a.Size); c != 0 {
				return c
			}
			return byName(a, b)
		})
	}
}

func byName(a, b types.FileEntry) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
