package pep440

import (
	"sort"
	"strings"
)

// sortKey is the cached total-order key over (epoch, release, pre, post,
// dev, local), following PEP 440 precedence: dev releases sort below
// pre-releases, pre-releases below the final release, the final release
// below post-releases, and a local label above the same public version.
type sortKey struct {
	epoch   int
	release []int
	pre     [2]int
	post    int
	dev     int
	local   []localSegment
}

const (
	phaseOrderAlpha = -3
	phaseOrderBeta  = -2
	phaseOrderRC    = -1

	// A bare dev release (no pre or post segment) sorts before any
	// pre-release of the same release tuple: 1.0.dev1 < 1.0a1.
	preOrderDevOnly = -4
	// No pre segment sorts after every pre-release: 1.0rc9 < 1.0.
	preOrderFinal = 1

	// Post and dev numbers are never negative, so -1 orders an absent
	// post segment below any present one.
	postAbsent = -1
	// An absent dev segment sorts above any present one: 1.0a1.dev1 < 1.0a1.
	devAbsent = int(^uint(0) >> 1)
)

func phaseOrder(p Phase) int {
	switch p {
	case PhaseAlpha:
		return phaseOrderAlpha
	case PhaseBeta:
		return phaseOrderBeta
	default:
		return phaseOrderRC
	}
}

func makeSortKey(epoch int, release []int, pre *preSegment, post, dev *int, local []localSegment) sortKey {
	k := sortKey{epoch: epoch, post: postAbsent, dev: devAbsent}

	// Trailing zeros do not participate in ordering: 1.0 == 1.0.0.
	trimmed := len(release)
	for trimmed > 0 && release[trimmed-1] == 0 {
		trimmed--
	}
	k.release = append([]int(nil), release[:trimmed]...)

	switch {
	case pre == nil && post == nil && dev != nil:
		k.pre = [2]int{preOrderDevOnly, 0}
	case pre == nil:
		k.pre = [2]int{preOrderFinal, 0}
	default:
		k.pre = [2]int{phaseOrder(pre.phase), pre.number}
	}

	if post != nil {
		k.post = *post
	}
	if dev != nil {
		k.dev = *dev
	}
	k.local = append([]localSegment(nil), local...)
	return k
}

func (k sortKey) compare(o sortKey) int {
	if c := cmpInt(k.epoch, o.epoch); c != 0 {
		return c
	}
	if c := cmpIntTuple(k.release, o.release); c != 0 {
		return c
	}
	if c := cmpInt(k.pre[0], o.pre[0]); c != 0 {
		return c
	}
	if c := cmpInt(k.pre[1], o.pre[1]); c != 0 {
		return c
	}
	if c := cmpInt(k.post, o.post); c != 0 {
		return c
	}
	if c := cmpInt(k.dev, o.dev); c != 0 {
		return c
	}
	return cmpLocal(k.local, o.local)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpIntTuple(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpInt(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

// cmpLocal orders local labels per PEP 440: no label sorts first; labels
// compare segment-wise with numeric segments ordering above alphanumeric
// ones; equal prefixes leave the longer label greater.
func cmpLocal(a, b []localSegment) int {
	if len(a) == 0 || len(b) == 0 {
		return cmpInt(len(a), len(b))
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpLocalSegment(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

func cmpLocalSegment(a, b localSegment) int {
	switch {
	case a.numeric && b.numeric:
		return cmpInt(a.num, b.num)
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	default:
		return strings.Compare(a.str, b.str)
	}
}

// Compare returns -1, 0 or 1 when v orders before, equal to, or after
// other under PEP 440 precedence.
func (v Version) Compare(other Version) int {
	return v.key.compare(other.key)
}

// LessThan reports whether v orders before other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v orders after other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal reports whether v and other are the same version under PEP 440
// ordering; equivalent spellings such as "1.0" and "1.0.0" are equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Versions is a sortable collection of Version values.
type Versions []Version

func (vs Versions) Len() int           { return len(vs) }
func (vs Versions) Less(i, j int) bool { return vs[i].LessThan(vs[j]) }
func (vs Versions) Swap(i, j int)      { vs[i], vs[j] = vs[j], vs[i] }

// Sort orders the collection ascending in place.
func (vs Versions) Sort() {
	sort.Sort(vs)
}
