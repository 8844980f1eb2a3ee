// Package duplicates finds records that collide on state id within a type,
// and records whose own province list repeats an id.
package duplicates

import "namegen/internal/models"

// Set holds positions into the record slice it was computed from.
type Set map[int]struct{}

// Contains reports whether the record at position i is a duplicate.
func (s Set) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Len returns the number of duplicate records.
func (s Set) Len() int {
	return len(s)
}

// ByState returns every record whose (type, state id) pair is shared with at
// least one other record.
func ByState(records []models.Record) Set {
	type key struct {
		typ string
		id  int64
	}
	groups := make(map[key][]int)
	for i, r := range records {
		k := key{typ: r.Type, id: r.StateID}
		groups[k] = append(groups[k], i)
	}

	set := make(Set)
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, i := range members {
			set[i] = struct{}{}
		}
	}
	return set
}

// ByProvince returns every record that lists the same province id more than
// once. Only type groups with at least one non-empty province list are
// inspected; the check never spans records.
func ByProvince(records []models.Record) Set {
	groups := make(map[string][]int)
	hasProvinces := make(map[string]bool)
	for i, r := range records {
		groups[r.Type] = append(groups[r.Type], i)
		if len(r.Provinces) > 0 {
			hasProvinces[r.Type] = true
		}
	}

	set := make(Set)
	for typ, members := range groups {
		if !hasProvinces[typ] {
			continue
		}
		for _, i := range members {
			if repeatsProvince(records[i].Provinces) {
				set[i] = struct{}{}
			}
		}
	}
	return set
}

func repeatsProvince(provinces []models.Province) bool {
	seen := make(map[int64]struct{}, len(provinces))
	for _, p := range provinces {
		if _, ok := seen[p.ID]; ok {
			return true
		}
		seen[p.ID] = struct{}{}
	}
	return false
}
