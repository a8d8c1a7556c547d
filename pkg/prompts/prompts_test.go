package prompts

import (
	"testing"

	"github.com/openstax/pyversionista/pkg/version"
)

func mustParse(t *testing.T, scheme version.Scheme, tag string) *version.Version {
	t.Helper()
	v, err := version.Parse(scheme, tag)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", scheme, tag, err)
	}
	return v
}

func assertChoices(t *testing.T, choices []Choice, expected [][2]string) {
	t.Helper()
	if len(choices) != len(expected) {
		t.Fatalf("got %d choices, want %d: %+v", len(choices), len(expected), choices)
	}
	for i, want := range expected {
		if choices[i].Label != want[0] {
			t.Errorf("choice %d label = %q, want %q", i, choices[i].Label, want[0])
		}
		if choices[i].Version.String() != want[1] {
			t.Errorf("choice %d version = %q, want %q", i, choices[i].Version, want[1])
		}
	}
}

func TestNextChoicesSemver(t *testing.T) {
	current := mustParse(t, version.SchemeSemver, "v1.2.3")

	assertChoices(t, NextChoices(current), [][2]string{
		{"Skip release", "1.2.3"},
		{"Patch", "1.2.4"},
		{"Minor", "1.3.0"},
		{"Major", "2.0.0"},
	})
}

func TestNextChoicesPEP440(t *testing.T) {
	current := mustParse(t, version.SchemePEP440, "1.2.3")

	assertChoices(t, NextChoices(current), [][2]string{
		{"Skip release", "1.2.3"},
		{"Micro", "1.2.4"},
		{"Minor", "1.3.0"},
		{"Major", "2.0.0"},
		{"Alpha", "1.2.4a1"},
		{"Beta", "1.2.4b1"},
		{"Release candidate", "1.2.4rc1"},
		{"Dev", "1.2.4.dev1"},
	})
}

func TestNextChoicesPEP440Prerelease(t *testing.T) {
	current := mustParse(t, version.SchemePEP440, "2.0.0b2")

	assertChoices(t, NextChoices(current), [][2]string{
		{"Skip release", "2.0.0b2"},
		{"Micro", "2.0.1"},
		{"Minor", "2.0.0"},
		{"Major", "2.0.0"},
		{"Alpha", "2.0.0a1"},
		{"Beta", "2.0.0b3"},
		{"Release candidate", "2.0.0rc1"},
		{"Dev", "2.0.0b3.dev1"},
	})
}
