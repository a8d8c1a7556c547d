package pep440

import "strings"

// Bump selects which release component NextAlpha, NextBeta,
// NextReleaseCandidate and NextDev advance when they start from a final
// release. It has no effect when a pre-release or dev segment is already
// in progress, but is validated regardless.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpMicro Bump = "micro"
)

// ParseBump reads a bump name, case-insensitively.
func ParseBump(s string) (Bump, error) {
	b := Bump(strings.ToLower(s))
	if !b.valid() {
		return "", &InvalidBumpError{Bump: Bump(s)}
	}
	return b, nil
}

func (b Bump) valid() bool {
	return b == BumpMajor || b == BumpMinor || b == BumpMicro
}

// NextMajor returns the next major release: major+1.0.0, except that an
// in-progress pre-release or dev snapshot of X.0.0 already stands for the
// next major milestone and only has its pre/dev/post/local segments
// stripped ("2.0.0a1" bumps to "2.0.0", not "3.0.0").
func (v Version) NextMajor() Version {
	if v.IsPrerelease() && v.Minor() == 0 && v.Micro() == 0 {
		return newRelease(v.epoch, v.Major(), 0, 0)
	}
	return newRelease(v.epoch, v.Major()+1, 0, 0)
}

// NextMinor returns the next minor release: major.minor+1.0, with the
// same suppression as NextMajor when a pre-release or dev snapshot of
// X.Y.0 is in progress ("1.2.0a1" bumps to "1.2.0", not "1.3.0").
func (v Version) NextMinor() Version {
	if v.IsPrerelease() && v.Micro() == 0 {
		return newRelease(v.epoch, v.Major(), v.Minor(), 0)
	}
	return newRelease(v.epoch, v.Major(), v.Minor()+1, 0)
}

// NextMicro returns the next micro release: major.minor.micro+1, keeping
// micro unchanged when a pre-release or dev snapshot of it is in progress
// ("1.2.1a1" bumps to "1.2.1", while "1.2.0a1" bumps to "1.2.1").
func (v Version) NextMicro() Version {
	if v.IsPrerelease() && v.Micro() > 0 {
		return newRelease(v.epoch, v.Major(), v.Minor(), v.Micro())
	}
	return newRelease(v.epoch, v.Major(), v.Minor(), v.Micro()+1)
}

// NextAlpha returns the next alpha pre-release. Starting from a final
// release, bump names the release component to advance first; an alpha in
// progress has its number incremented, an alpha mid-dev is promoted as
// is, and any other phase restarts at a1.
func (v Version) NextAlpha(bump Bump) (Version, error) {
	return v.nextPhase(PhaseAlpha, bump)
}

// NextBeta returns the next beta pre-release, following the same rules as
// NextAlpha with target phase b.
func (v Version) NextBeta(bump Bump) (Version, error) {
	return v.nextPhase(PhaseBeta, bump)
}

// NextReleaseCandidate returns the next release candidate, following the
// same rules as NextAlpha with target phase rc.
func (v Version) NextReleaseCandidate(bump Bump) (Version, error) {
	return v.nextPhase(PhaseReleaseCandidate, bump)
}

func (v Version) nextPhase(target Phase, bump Bump) (Version, error) {
	if !bump.valid() {
		return Version{}, &InvalidBumpError{Bump: bump}
	}

	base := v
	if v.IsRelease() {
		base = v.applyBump(bump)
	}

	// Phase numbering restarts at 1 whenever the target phase differs
	// from the one in progress; it never regresses to an earlier number.
	number := 1
	if base.pre != nil && base.pre.phase == target {
		if base.dev != nil {
			// Mid-dev the current number already names this phase
			// step: a2.dev1 promotes to a2.
			number = base.pre.number
		} else {
			number = base.pre.number + 1
		}
	}

	pre := &preSegment{phase: target, number: number}
	return newVersion(base.epoch, base.releaseTriple(), pre, nil, nil, nil), nil
}

// NextDev returns the next dev-release. Starting from a final release,
// bump names the release component to advance first. A pre-release in
// progress steps to its next number unless it is already mid-dev, in
// which case only the dev counter moves: "1.2.1rc1" goes to
// "1.2.1rc2.dev1", "1.2.1rc2.dev1" to "1.2.1rc2.dev2".
func (v Version) NextDev(bump Bump) (Version, error) {
	if !bump.valid() {
		return Version{}, &InvalidBumpError{Bump: bump}
	}

	base := v
	if v.IsRelease() {
		base = v.applyBump(bump)
	}

	var pre *preSegment
	if base.pre != nil {
		number := base.pre.number
		if base.dev == nil {
			number++
		}
		pre = &preSegment{phase: base.pre.phase, number: number}
	}

	dev := 1
	if base.dev != nil {
		dev = *base.dev + 1
	}

	return newVersion(base.epoch, base.releaseTriple(), pre, nil, &dev, nil), nil
}

// applyBump dispatches an already validated bump.
func (v Version) applyBump(b Bump) Version {
	switch b {
	case BumpMajor:
		return v.NextMajor()
	case BumpMinor:
		return v.NextMinor()
	default:
		return v.NextMicro()
	}
}

func newRelease(epoch, major, minor, micro int) Version {
	return newVersion(epoch, []int{major, minor, micro}, nil, nil, nil, nil)
}
