package tile

import (
	"fmt"
	"strings"
)

// Flags is the set of behaviours a tile carries.
type Flags uint8

const (
	None  Flags = 0
	Solid Flags = 1 << (iota - 1)
	Destructible
	Animated
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Solid, "SOLID"},
	{Destructible, "DESTRUCTIBLE"},
	{Animated, "ANIMATED"},
}

// Has reports whether every bit of f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Names lists the set flags in declaration order.
func (fl Flags) Names() []string {
	var out []string
	for _, n := range flagNames {
		if fl.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

func (fl Flags) String() string {
	if fl == None {
		return "NONE"
	}
	return strings.Join(fl.Names(), "|")
}

// ParseFlags turns names such as "solid" or "ANIMATED" into a flag set.
func ParseFlags(names []string) (Flags, error) {
	var fl Flags
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || name == "NONE" {
			continue
		}

		found := false
		for _, n := range flagNames {
			if n.name == name {
				fl |= n.flag
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("tile: unknown flag %q", name)
		}
	}
	return fl, nil
}
