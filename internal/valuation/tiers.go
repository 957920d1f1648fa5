package valuation

import (
	"fmt"
	"math"
	"sort"
)

// Coordinates locates an area on the map. Presentation only; never used in pricing.
type Coordinates struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" mapstructure:"lng"`
}

// LocationTierEntry is one row of the location tier table.
type LocationTierEntry struct {
	AreaName       string       `json:"area_name"`
	Cluster        string       `json:"cluster"`
	BaseRate       float64      `json:"base_rate"`
	TierMultiplier float64      `json:"tier_multiplier"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
}

// TierTable resolves area names to their rate tier. It is immutable once
// built, so a single instance can be shared by any number of goroutines.
type TierTable struct {
	entries  map[string]LocationTierEntry
	order    []string
	clusters []string
}

// NewTierTable validates entries and builds a read-only table.
// Entry order is preserved for listing.
func NewTierTable(entries []LocationTierEntry) (*TierTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("tier table must contain at least one area")
	}

	t := &TierTable{
		entries: make(map[string]LocationTierEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	seenCluster := make(map[string]bool)

	for i, e := range entries {
		if e.AreaName == "" {
			return nil, fmt.Errorf("tier table entry %d: area name is empty", i)
		}
		if _, dup := t.entries[e.AreaName]; dup {
			return nil, fmt.Errorf("tier table entry %d: duplicate area %q", i, e.AreaName)
		}
		if !(e.BaseRate > 0) || math.IsInf(e.BaseRate, 0) {
			return nil, fmt.Errorf("tier table entry %q: base rate must be positive, got %v", e.AreaName, e.BaseRate)
		}
		if !(e.TierMultiplier >= 0) || math.IsInf(e.TierMultiplier, 0) {
			return nil, fmt.Errorf("tier table entry %q: tier multiplier must be non-negative, got %v", e.AreaName, e.TierMultiplier)
		}

		if e.Coordinates != nil {
			c := *e.Coordinates
			e.Coordinates = &c
		}
		t.entries[e.AreaName] = e
		t.order = append(t.order, e.AreaName)

		if e.Cluster != "" && !seenCluster[e.Cluster] {
			seenCluster[e.Cluster] = true
			t.clusters = append(t.clusters, e.Cluster)
		}
	}

	return t, nil
}

// Lookup returns the entry for areaName. The match is exact; callers
// normalise user input before calling.
func (t *TierTable) Lookup(areaName string) (LocationTierEntry, error) {
	e, ok := t.entries[areaName]
	if !ok {
		return LocationTierEntry{}, fmt.Errorf("%w: %q", ErrUnknownArea, areaName)
	}
	return copyEntry(e), nil
}

// Len returns the number of areas in the table.
func (t *TierTable) Len() int {
	return len(t.order)
}

// Entries returns a copy of every entry in table order.
func (t *TierTable) Entries() []LocationTierEntry {
	out := make([]LocationTierEntry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, copyEntry(t.entries[name]))
	}
	return out
}

// EntriesInCluster returns the entries belonging to cluster in table order.
func (t *TierTable) EntriesInCluster(cluster string) []LocationTierEntry {
	out := make([]LocationTierEntry, 0)
	for _, name := range t.order {
		if e := t.entries[name]; e.Cluster == cluster {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// Clusters returns the distinct cluster names in first-seen order.
func (t *TierTable) Clusters() []string {
	out := make([]string, len(t.clusters))
	copy(out, t.clusters)
	return out
}

// AreaNames returns all area names sorted alphabetically.
func (t *TierTable) AreaNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	sort.Strings(out)
	return out
}

func copyEntry(e LocationTierEntry) LocationTierEntry {
	if e.Coordinates != nil {
		c := *e.Coordinates
		e.Coordinates = &c
	}
	return e
}
