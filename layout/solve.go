package layout

import (
	"slices"
)

// solve distributes total cells among constraints
//
// Raw requests come first: fixed kinds take their literal or rounded share
// and flexible kinds split the free length evenly, clamped to their bound.
// An excess is then removed lowest priority first, honoring Min bounds, and
// only if that is not enough again ignoring them. A shortfall is handed to
// growable flexible constraints lowest priority first; whatever is still
// left goes to the last segment, so the result always sums to total
func solve(total int, cs []Constraint) []int {
	lengths := make([]int, len(cs))
	if len(cs) == 0 {
		return lengths
	}
	total = max(total, 0)

	fixed, nflex := 0, 0
	for i, c := range cs {
		if c.flexible() {
			nflex++
			continue
		}
		lengths[i] = c.request(total)
		fixed += lengths[i]
	}
	if nflex > 0 {
		share := max(total-fixed, 0) / nflex
		for i, c := range cs {
			switch c.Kind {
			case KindMin:
				lengths[i] = max(share, c.Value)
			case KindMax:
				lengths[i] = min(share, max(c.Value, 0))
			}
		}
	}

	sum := 0
	for _, l := range lengths {
		sum += l
	}

	groups := priorityGroups(cs)
	switch {
	case sum > total:
		excess := sum - total
		for _, honorMin := range []bool{true, false} {
			for _, g := range groups {
				if excess == 0 {
					break
				}
				excess -= shrink(lengths, cs, g, excess, honorMin)
			}
		}
	case sum < total:
		deficit := total - sum
		for _, g := range groups {
			if deficit == 0 {
				break
			}
			deficit -= grow(lengths, cs, g, deficit)
		}
		lengths[len(lengths)-1] += deficit
	}

	return lengths
}

// priorityGroups returns constraint indices grouped by ascending priority,
// input order within a group
func priorityGroups(cs []Constraint) [][]int {
	prios := make([]int, 0, len(cs))
	for _, c := range cs {
		prios = append(prios, c.Priority)
	}
	slices.Sort(prios)
	prios = slices.Compact(prios)

	groups := make([][]int, len(prios))
	for i, c := range cs {
		g, _ := slices.BinarySearch(prios, c.Priority)
		groups[g] = append(groups[g], i)
	}
	return groups
}

// shrink removes up to excess cells from the group in proportion to what
// each member can give, remainder taken from the last members first
func shrink(lengths []int, cs []Constraint, group []int, excess int, honorMin bool) int {
	caps := make([]int, len(group))
	capSum := 0
	for k, i := range group {
		floor := 0
		if honorMin && cs[i].Kind == KindMin {
			floor = max(cs[i].Value, 0)
		}
		caps[k] = max(lengths[i]-floor, 0)
		capSum += caps[k]
	}
	if capSum == 0 {
		return 0
	}

	take := min(excess, capSum)
	taken := 0
	for k, i := range group {
		d := take * caps[k] / capSum
		lengths[i] -= d
		caps[k] -= d
		taken += d
	}
	for k := len(group) - 1; k >= 0 && taken < take; k-- {
		d := min(caps[k], take-taken)
		lengths[group[k]] -= d
		taken += d
	}
	return taken
}

// grow hands up to deficit cells evenly to the group's growable members,
// remainder to the last ones first
func grow(lengths []int, cs []Constraint, group []int, deficit int) int {
	const unbounded = -1

	var members, caps []int
	for _, i := range group {
		switch cs[i].Kind {
		case KindMin:
			members = append(members, i)
			caps = append(caps, unbounded)
		case KindMax:
			if room := cs[i].Value - lengths[i]; room > 0 {
				members = append(members, i)
				caps = append(caps, room)
			}
		}
	}

	given := 0
	for given < deficit {
		active := 0
		for _, c := range caps {
			if c != 0 {
				active++
			}
		}
		if active == 0 {
			break
		}

		per := (deficit - given) / active
		if per == 0 {
			for k := len(members) - 1; k >= 0 && given < deficit; k-- {
				if caps[k] == 0 {
					continue
				}
				d := deficit - given
				if caps[k] != unbounded {
					d = min(d, caps[k])
					caps[k] -= d
				}
				lengths[members[k]] += d
				given += d
			}
			break
		}

		for k := range members {
			if caps[k] == 0 {
				continue
			}
			d := per
			if caps[k] != unbounded {
				d = min(d, caps[k])
				caps[k] -= d
			}
			lengths[members[k]] += d
			given += d
		}
	}
	return given
}
