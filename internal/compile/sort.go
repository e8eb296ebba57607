// internal/compile/sort.go
package compile

import "sort"

// order returns roster indexes in output order. "student" sorts by the
// export's "Last, First" key; "team" groups teammates together with
// teamless students last. All sorts are stable.
func (ms *MatchSet) order(accs []acc, key string) []int {
	idx := make([]int, ms.ro.Len())
	for i := range idx {
		idx[i] = i
	}
	st := ms.ro.Students

	less := func(i, j int) bool { return st[i].Student < st[j].Student }
	switch key {
	case SortName:
		less = func(i, j int) bool { return st[i].Name < st[j].Name }
	case SortSection:
		less = func(i, j int) bool {
			if st[i].Section != st[j].Section {
				return st[i].Section < st[j].Section
			}
			return st[i].Student < st[j].Student
		}
	case SortTeam:
		less = func(i, j int) bool {
			ti, tj := accs[i].team, accs[j].team
			if (ti == "") != (tj == "") {
				return tj == "" // teamless last
			}
			if ti != tj {
				return ti < tj
			}
			if st[i].Section != st[j].Section {
				return st[i].Section < st[j].Section
			}
			return st[i].Student < st[j].Student
		}
	}

	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })
	return idx
}
