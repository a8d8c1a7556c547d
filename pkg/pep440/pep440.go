// Package pep440 implements parsing, ordering and "next version"
// arithmetic for PEP 440 version identifiers, the versioning scheme used
// by Python packages.
//
// Versions are immutable values: every transition returns a new Version
// and never modifies its receiver. The zero Version is not meaningful;
// obtain one through Parse, MustParse or Copy.
package pep440

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase identifies a pre-release phase, ordered alpha < beta < rc.
type Phase string

const (
	PhaseAlpha            Phase = "a"
	PhaseBeta             Phase = "b"
	PhaseReleaseCandidate Phase = "rc"
)

type preSegment struct {
	phase  Phase
	number int
}

// localSegment is one dot-separated piece of a local version label,
// either numeric or alphanumeric.
type localSegment struct {
	numeric bool
	num     int
	str     string
}

func (s localSegment) String() string {
	if s.numeric {
		return strconv.Itoa(s.num)
	}
	return s.str
}

// Version is a single PEP 440 version identifier: an optional epoch, a
// release tuple, and optional pre-release, post-release, dev-release and
// local segments. The ordering key over all segments is computed once at
// construction and cached.
type Version struct {
	epoch   int
	release []int
	pre     *preSegment
	post    *int
	dev     *int
	local   []localSegment
	key     sortKey
}

// newVersion is the one construction path. It copies every field it is
// handed and derives the cached ordering key, so no caller can produce a
// Version whose key is stale or whose internals alias another Version.
func newVersion(epoch int, release []int, pre *preSegment, post, dev *int, local []localSegment) Version {
	v := Version{
		epoch:   epoch,
		release: append([]int(nil), release...),
		pre:     clonePre(pre),
		post:    cloneInt(post),
		dev:     cloneInt(dev),
		local:   append([]localSegment(nil), local...),
	}
	v.key = makeSortKey(v.epoch, v.release, v.pre, v.post, v.dev, v.local)
	return v
}

func clonePre(p *preSegment) *preSegment {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

// Copy returns a Version that shares no internal state with v, including
// the cached ordering key.
func (v Version) Copy() Version {
	return newVersion(v.epoch, v.release, v.pre, v.post, v.dev, v.local)
}

// Epoch returns the version epoch, 0 unless the version carries an
// explicit N! prefix.
func (v Version) Epoch() int {
	return v.epoch
}

// Release returns a copy of the release tuple as parsed. PEP 440 allows
// any length; transition results always have exactly three components.
func (v Version) Release() []int {
	return append([]int(nil), v.release...)
}

// Major returns the first release component, 0 if absent.
func (v Version) Major() int {
	return v.releaseAt(0)
}

// Minor returns the second release component, 0 if absent.
func (v Version) Minor() int {
	return v.releaseAt(1)
}

// Micro returns the third release component, 0 if absent.
func (v Version) Micro() int {
	return v.releaseAt(2)
}

func (v Version) releaseAt(i int) int {
	if i < len(v.release) {
		return v.release[i]
	}
	return 0
}

// Pre returns the pre-release phase and number. ok is false when the
// version has no pre-release segment.
func (v Version) Pre() (phase Phase, number int, ok bool) {
	if v.pre == nil {
		return "", 0, false
	}
	return v.pre.phase, v.pre.number, true
}

// Post returns the post-release number, if any.
func (v Version) Post() (int, bool) {
	if v.post == nil {
		return 0, false
	}
	return *v.post, true
}

// Dev returns the dev-release number, if any.
func (v Version) Dev() (int, bool) {
	if v.dev == nil {
		return 0, false
	}
	return *v.dev, true
}

// Local returns the normalized local version label, "" when absent.
func (v Version) Local() string {
	if len(v.local) == 0 {
		return ""
	}
	parts := make([]string, len(v.local))
	for i, s := range v.local {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// IsAlpha reports whether the version is an alpha pre-release.
func (v Version) IsAlpha() bool {
	return v.pre != nil && v.pre.phase == PhaseAlpha
}

// IsBeta reports whether the version is a beta pre-release.
func (v Version) IsBeta() bool {
	return v.pre != nil && v.pre.phase == PhaseBeta
}

// IsReleaseCandidate reports whether the version is a release candidate.
func (v Version) IsReleaseCandidate() bool {
	return v.pre != nil && v.pre.phase == PhaseReleaseCandidate
}

// IsRelease reports whether the version is final: its public form equals
// its base version, meaning no pre-release, post-release or dev segment.
// A local label does not affect this.
func (v Version) IsRelease() bool {
	return v.pre == nil && v.post == nil && v.dev == nil
}

// IsDev reports whether the version is a dev-release.
func (v Version) IsDev() bool {
	return v.dev != nil
}

// IsPostRelease reports whether the version carries a post-release
// segment.
func (v Version) IsPostRelease() bool {
	return v.post != nil
}

// IsPrerelease reports whether the version precedes its release segment's
// final form, i.e. it carries a pre-release or dev segment.
func (v Version) IsPrerelease() bool {
	return v.pre != nil || v.dev != nil
}

// String renders the canonical form:
// [{epoch}!]{release}[{phase}{N}][.post{N}][.dev{N}][+{local}].
func (v Version) String() string {
	if len(v.local) == 0 {
		return v.Public()
	}
	return v.Public() + "+" + v.Local()
}

// Public renders the canonical form without the local label.
func (v Version) Public() string {
	s := v.BaseVersion()
	if v.pre != nil {
		s += fmt.Sprintf("%s%d", v.pre.phase, v.pre.number)
	}
	if v.post != nil {
		s += fmt.Sprintf(".post%d", *v.post)
	}
	if v.dev != nil {
		s += fmt.Sprintf(".dev%d", *v.dev)
	}
	return s
}

// BaseVersion renders the epoch and release tuple alone, e.g. "1.2.0"
// for "1.2.0a1.dev2".
func (v Version) BaseVersion() string {
	parts := make([]string, len(v.release))
	for i, n := range v.release {
		parts[i] = strconv.Itoa(n)
	}
	s := strings.Join(parts, ".")
	if v.epoch != 0 {
		s = fmt.Sprintf("%d!%s", v.epoch, s)
	}
	return s
}

// releaseTriple is the three-component release tuple every transition
// result is built from.
func (v Version) releaseTriple() []int {
	return []int{v.Major(), v.Minor(), v.Micro()}
}
