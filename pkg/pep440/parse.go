package pep440

import (
	"regexp"
	"strconv"
	"strings"
)

// versionPattern is the PEP 440 grammar in its permissive form: it admits
// the alternate spellings (alpha/beta/c/pre/preview, post/rev/r, a bare
// "-N" post-release), optional separators, implicit segment numbers, a
// leading "v" and surrounding whitespace. Parse normalizes all of those
// to the canonical form.
const versionPattern = `^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?:[-_\.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_\.]?(?P<pre_n>[0-9]+)?)?` +
	`(?:(?:-(?P<post_n1>[0-9]+))|(?:[-_\.]?(?P<post_l>post|rev|r)[-_\.]?(?P<post_n2>[0-9]+)?))?` +
	`(?:[-_\.]?(?P<dev_l>dev)[-_\.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?` +
	`\s*$`

var versionRegexp = regexp.MustCompile(`(?i)` + versionPattern)

// Parse reads text as a PEP 440 version. It accepts anything the grammar
// admits and returns the structured, normalized Version; input that does
// not match yields an *InvalidVersionError carrying the original string.
func Parse(text string) (Version, error) {
	groups := matchVersion(text)
	if groups == nil {
		return Version{}, &InvalidVersionError{Input: text}
	}

	epoch, ok := atoiDefault(groups["epoch"], 0)
	if !ok {
		return Version{}, &InvalidVersionError{Input: text}
	}

	var release []int
	for _, part := range strings.Split(groups["release"], ".") {
		n, ok := parseInt(part)
		if !ok {
			return Version{}, &InvalidVersionError{Input: text}
		}
		release = append(release, n)
	}

	var pre *preSegment
	if groups["pre_l"] != "" {
		n, ok := atoiDefault(groups["pre_n"], 0)
		if !ok {
			return Version{}, &InvalidVersionError{Input: text}
		}
		pre = &preSegment{phase: normalizePhase(groups["pre_l"]), number: n}
	}

	var post *int
	switch {
	case groups["post_n1"] != "":
		n, ok := parseInt(groups["post_n1"])
		if !ok {
			return Version{}, &InvalidVersionError{Input: text}
		}
		post = &n
	case groups["post_l"] != "":
		n, ok := atoiDefault(groups["post_n2"], 0)
		if !ok {
			return Version{}, &InvalidVersionError{Input: text}
		}
		post = &n
	}

	var dev *int
	if groups["dev_l"] != "" {
		n, ok := atoiDefault(groups["dev_n"], 0)
		if !ok {
			return Version{}, &InvalidVersionError{Input: text}
		}
		dev = &n
	}

	return newVersion(epoch, release, pre, post, dev, parseLocal(groups["local"])), nil
}

// MustParse is Parse for inputs known to be valid; it panics on error.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether text parses as a PEP 440 version. It never
// returns an error.
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// matchVersion returns the named submatches of text lowercased, or nil
// when text is not a version.
func matchVersion(text string) map[string]string {
	lowered := strings.ToLower(text)
	m := versionRegexp.FindStringSubmatch(lowered)
	if m == nil {
		return nil
	}
	groups := make(map[string]string)
	for i, name := range versionRegexp.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups
}

func normalizePhase(label string) Phase {
	switch label {
	case "a", "alpha":
		return PhaseAlpha
	case "b", "beta":
		return PhaseBeta
	default: // c, rc, pre, preview
		return PhaseReleaseCandidate
	}
}

func parseLocal(label string) []localSegment {
	if label == "" {
		return nil
	}
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	segments := make([]localSegment, 0, len(parts))
	for _, part := range parts {
		if n, ok := parseInt(part); ok {
			segments = append(segments, localSegment{numeric: true, num: n})
		} else {
			segments = append(segments, localSegment{str: part})
		}
	}
	return segments
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func atoiDefault(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	return parseInt(s)
}
