// Package version bridges the two tag schemes the release tooling
// handles: semver tags (the default) and PEP 440 tags used by Python
// projects.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/openstax/pyversionista/pkg/pep440"
)

// Scheme names the version grammar a repository's tags follow.
type Scheme string

const (
	SchemeSemver Scheme = "semver"
	SchemePEP440 Scheme = "pep440"
)

// ParseScheme reads a scheme name from configuration. The empty string
// defaults to semver; "python" is an alias for pep440.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(s) {
	case "", string(SchemeSemver):
		return SchemeSemver, nil
	case string(SchemePEP440), "python":
		return SchemePEP440, nil
	}
	return "", fmt.Errorf("unknown version scheme %q: must be %q or %q", s, SchemeSemver, SchemePEP440)
}

// Version is one parsed tag under either scheme.
type Version struct {
	scheme Scheme
	sem    *semver.Version
	py     pep440.Version
}

// Parse reads a tag under the given scheme. A leading "v" is accepted
// for both schemes.
func Parse(scheme Scheme, tag string) (*Version, error) {
	switch scheme {
	case SchemeSemver:
		sv, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse version %s: %w", tag, err)
		}
		return &Version{scheme: SchemeSemver, sem: sv}, nil
	case SchemePEP440:
		pv, err := pep440.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("failed to parse version %s: %w", tag, err)
		}
		return &Version{scheme: SchemePEP440, py: pv}, nil
	}
	return nil, fmt.Errorf("unknown version scheme %q", scheme)
}

// Zero returns the placeholder used for repositories with no release
// history yet.
func Zero(scheme Scheme) *Version {
	v, _ := Parse(scheme, "0.0.0")
	return v
}

// Scheme returns the scheme the version was parsed under.
func (v *Version) Scheme() Scheme {
	return v.scheme
}

// IsZero reports whether the version is the no-history placeholder.
func (v *Version) IsZero() bool {
	return v.String() == "0.0.0"
}

func (v *Version) String() string {
	if v.scheme == SchemeSemver {
		return v.sem.String()
	}
	return v.py.String()
}

// Tag renders the version the way it is tagged: semver tags carry a "v"
// prefix, PEP 440 tags are bare.
func (v *Version) Tag() string {
	if v.scheme == SchemeSemver {
		return "v" + v.sem.String()
	}
	return v.py.String()
}

// IsPrerelease reports whether the version precedes a final release
// under its scheme.
func (v *Version) IsPrerelease() bool {
	if v.scheme == SchemeSemver {
		return v.sem.Prerelease() != ""
	}
	return v.py.IsPrerelease()
}

// Compare orders two versions of the same scheme and refuses to compare
// across schemes.
func (v *Version) Compare(other *Version) (int, error) {
	if v.scheme != other.scheme {
		return 0, fmt.Errorf("cannot compare %s version %s with %s version %s",
			v.scheme, v, other.scheme, other)
	}
	if v.scheme == SchemeSemver {
		return v.sem.Compare(other.sem), nil
	}
	return v.py.Compare(other.py), nil
}

// Segment names the part of a version a transition advances. Release
// segments apply to both schemes; phase and dev segments require pep440.
type Segment string

const (
	SegmentMajor Segment = "major"
	SegmentMinor Segment = "minor"
	SegmentMicro Segment = "micro"
	SegmentAlpha Segment = "alpha"
	SegmentBeta  Segment = "beta"
	SegmentRC    Segment = "rc"
	SegmentDev   Segment = "dev"
)

// ParseSegment reads a segment name; "patch" is an alias for micro.
func ParseSegment(s string) (Segment, error) {
	switch seg := Segment(strings.ToLower(s)); seg {
	case SegmentMajor, SegmentMinor, SegmentMicro, SegmentAlpha, SegmentBeta, SegmentRC, SegmentDev:
		return seg, nil
	case "patch":
		return SegmentMicro, nil
	}
	return "", fmt.Errorf("unknown version segment %q", s)
}

// Segments lists the segments available under a scheme, in the order
// they are offered interactively.
func Segments(scheme Scheme) []Segment {
	if scheme == SchemeSemver {
		return []Segment{SegmentMicro, SegmentMinor, SegmentMajor}
	}
	return []Segment{
		SegmentMicro, SegmentMinor, SegmentMajor,
		SegmentAlpha, SegmentBeta, SegmentRC, SegmentDev,
	}
}

// Next computes the next version in the given segment. For phase and dev
// segments, bump names the release component to advance when starting
// from a final release; the empty bump defaults to micro. A repository
// with no history releases 1.0.0 first, whatever release segment is
// asked for.
func Next(v *Version, segment Segment, bump pep440.Bump) (*Version, error) {
	if bump == "" {
		bump = pep440.BumpMicro
	}
	if v.scheme == SchemeSemver {
		return nextSemver(v, segment)
	}
	return nextPEP440(v, segment, bump)
}

func nextSemver(v *Version, segment Segment) (*Version, error) {
	if v.IsZero() {
		return Parse(SchemeSemver, "1.0.0")
	}
	var next semver.Version
	switch segment {
	case SegmentMajor:
		next = v.sem.IncMajor()
	case SegmentMinor:
		next = v.sem.IncMinor()
	case SegmentMicro:
		next = v.sem.IncPatch()
	default:
		return nil, fmt.Errorf("segment %s requires the %s scheme", segment, SchemePEP440)
	}
	return &Version{scheme: SchemeSemver, sem: &next}, nil
}

func nextPEP440(v *Version, segment Segment, bump pep440.Bump) (*Version, error) {
	if v.IsZero() {
		switch segment {
		case SegmentMajor, SegmentMinor, SegmentMicro:
			return Parse(SchemePEP440, "1.0.0")
		}
	}

	var (
		next pep440.Version
		err  error
	)
	switch segment {
	case SegmentMajor:
		next = v.py.NextMajor()
	case SegmentMinor:
		next = v.py.NextMinor()
	case SegmentMicro:
		next = v.py.NextMicro()
	case SegmentAlpha:
		next, err = v.py.NextAlpha(bump)
	case SegmentBeta:
		next, err = v.py.NextBeta(bump)
	case SegmentRC:
		next, err = v.py.NextReleaseCandidate(bump)
	case SegmentDev:
		next, err = v.py.NextDev(bump)
	default:
		return nil, fmt.Errorf("unknown version segment %q", segment)
	}
	if err != nil {
		return nil, err
	}
	return &Version{scheme: SchemePEP440, py: next}, nil
}
