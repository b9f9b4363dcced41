package greenmoon

import (
	"fmt"
	"slices"
	"strings"
)

// TargetKind selects how a Target resolves to recipients.
type TargetKind uint8

const (
	TargetSingle    TargetKind = iota // one named object
	TargetNames                       // an explicit list of object names
	TargetGroup                       // every member of one group
	TargetGroups                      // every member of several groups
	TargetManager                     // the ObjectManager itself
	TargetComposite                   // several targets at once
)

// Target identifies the recipients of a message. It is pure data; the
// ObjectManager resolves it at send time.
type Target struct {
	Kind    TargetKind
	Names   []string
	Targets []Target
}

// To addresses a single object by name.
func To(name string) Target { return Target{Kind: TargetSingle, Names: []string{name}} }

// Names addresses several objects by name. A single name yields a Single target.
func Names(names ...string) Target {
	if len(names) == 1 {
		return To(names[0])
	}
	return Target{Kind: TargetNames, Names: slices.Clone(names)}
}

// Group addresses every member of a group.
func Group(name string) Target { return Target{Kind: TargetGroup, Names: []string{name}} }

// Groups addresses every member of several groups.
func Groups(names ...string) Target {
	return Target{Kind: TargetGroups, Names: slices.Clone(names)}
}

// Manager addresses the ObjectManager itself.
func Manager() Target { return Target{Kind: TargetManager} }

// Composite combines several targets.
func Composite(ts ...Target) Target {
	return Target{Kind: TargetComposite, Targets: slices.Clone(ts)}
}

// Name returns the single name of a Single or Group target.
func (t Target) Name() string {
	if len(t.Names) == 0 {
		return ""
	}
	return t.Names[0]
}

// Equal reports whether two targets address the same recipients the same way.
func (t Target) Equal(o Target) bool {
	if t.Kind != o.Kind || !slices.Equal(t.Names, o.Names) || len(t.Targets) != len(o.Targets) {
		return false
	}
	for i := range t.Targets {
		if !t.Targets[i].Equal(o.Targets[i]) {
			return false
		}
	}
	return true
}

func (t Target) String() string {
	switch t.Kind {
	case TargetSingle:
		return t.Name()
	case TargetNames:
		return "[" + strings.Join(t.Names, ", ") + "]"
	case TargetGroup:
		return "group:" + t.Name()
	case TargetGroups:
		return "groups:[" + strings.Join(t.Names, ", ") + "]"
	case TargetManager:
		return "manager"
	case TargetComposite:
		parts := make([]string, len(t.Targets))
		for i, c := range t.Targets {
			parts[i] = c.String()
		}
		return "{" + strings.Join(parts, "; ") + "}"
	default:
		return fmt.Sprintf("Target(%d)", t.Kind)
	}
}
