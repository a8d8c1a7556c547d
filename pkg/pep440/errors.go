package pep440

import "fmt"

// InvalidVersionError reports input that does not match the PEP 440
// grammar. Input holds the string as it was given, before any
// normalization.
type InvalidVersionError struct {
	Input string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid PEP 440 version %q", e.Input)
}

// InvalidBumpError reports a Bump argument outside major, minor and
// micro. Transitions validate the bump before doing anything else, so an
// InvalidBumpError never comes with a partially computed version.
type InvalidBumpError struct {
	Bump Bump
}

func (e *InvalidBumpError) Error() string {
	return fmt.Sprintf("invalid version bump %q: must be %q, %q or %q",
		string(e.Bump), BumpMajor, BumpMinor, BumpMicro)
}
