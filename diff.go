package siteconf

import "github.com/eringen/siteconf/pyconf"

// ChangeKind classifies a Change.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Change is one setting that differs between two configs. Old and New are
// Python literals; the missing side of an add or remove is empty.
type Change struct {
	Name string
	Kind ChangeKind
	Old  string
	New  string
}

// Diff lists settings that differ from a to b, in b's module order followed
// by settings only a has. A nil a reports every setting of b as added.
func Diff(a, b *SiteConfig) []Change {
	var before []Setting
	if a != nil {
		before = a.Settings()
	}
	old := make(map[string]pyconf.Value, len(before))
	for _, s := range before {
		old[s.Name] = s.Value
	}

	var changes []Change
	seen := make(map[string]bool)
	for _, s := range b.Settings() {
		seen[s.Name] = true
		prev, ok := old[s.Name]
		switch {
		case !ok:
			changes = append(changes, Change{Name: s.Name, Kind: Added, New: pyconf.Format(s.Value)})
		case !prev.Equal(s.Value):
			changes = append(changes, Change{
				Name: s.Name,
				Kind: Changed,
				Old:  pyconf.Format(prev),
				New:  pyconf.Format(s.Value),
			})
		}
	}
	for _, s := range before {
		if !seen[s.Name] {
			changes = append(changes, Change{Name: s.Name, Kind: Removed, Old: pyconf.Format(s.Value)})
		}
	}
	return changes
}
