package mindmap

import (
	"strings"
	"unicode/utf8"
)

// Role is a node's structural role, used for size estimation.
type Role int

const (
	RoleDescendant Role = iota
	RoleTopLevel
	RoleRoot
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleTopLevel:
		return "top-level"
	default:
		return "descendant"
	}
}

// Size is an estimated bounding box.
type Size struct {
	W, H float64
}

// HalfW returns half the width.
func (s Size) HalfW() float64 { return s.W / 2 }

// HalfH returns half the height.
func (s Size) HalfH() float64 { return s.H / 2 }

type sizeRule struct {
	base, perRune, minW, maxW, h float64
}

var sizeRules = map[Role]sizeRule{
	RoleRoot:       {base: 60, perRune: 12, minW: 160, maxW: 640, h: 64},
	RoleTopLevel:   {base: 40, perRune: 8, minW: 120, maxW: 600, h: 48},
	RoleDescendant: {base: 32, perRune: 7, minW: 100, maxW: 480, h: 40},
}

// EstimateSize derives a bounding box from the title length and role.
// The result depends only on its arguments.
func EstimateSize(title string, role Role) Size {
	rule, ok := sizeRules[role]
	if !ok {
		rule = sizeRules[RoleDescendant]
	}
	n := float64(utf8.RuneCountInString(strings.TrimSpace(title)))
	w := min(max(rule.base+rule.perRune*n, rule.minW), rule.maxW)
	return Size{W: w, H: rule.h}
}
