// Package prompts holds the interactive parts of the release flow.
package prompts

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/openstax/pyversionista/pkg/changelog"
	"github.com/openstax/pyversionista/pkg/version"
)

// Choice is one selectable next version.
type Choice struct {
	Label   string
	Segment version.Segment
	Version *version.Version
}

// NextChoices builds the selectable next versions for the current one,
// each computed by actually running the transition. The skip entry comes
// first.
func NextChoices(current *version.Version) []Choice {
	choices := []Choice{
		{Label: "Skip release", Version: current},
	}
	for _, seg := range version.Segments(current.Scheme()) {
		next, err := version.Next(current, seg, "")
		if err != nil {
			continue
		}
		choices = append(choices, Choice{
			Label:   segmentLabel(current.Scheme(), seg),
			Segment: seg,
			Version: next,
		})
	}
	return choices
}

func segmentLabel(scheme version.Scheme, seg version.Segment) string {
	if seg == version.SegmentMicro && scheme == version.SchemeSemver {
		return "Patch"
	}
	switch seg {
	case version.SegmentMajor:
		return "Major"
	case version.SegmentMinor:
		return "Minor"
	case version.SegmentMicro:
		return "Micro"
	case version.SegmentAlpha:
		return "Alpha"
	case version.SegmentBeta:
		return "Beta"
	case version.SegmentRC:
		return "Release candidate"
	case version.SegmentDev:
		return "Dev"
	}
	return string(seg)
}

// SelectNextVersion shows the recent PRs and asks which next version to
// cut. A nil version means the release was skipped.
func SelectNextVersion(repoName string, current *version.Version, entries []changelog.Entry) (*version.Version, error) {
	fmt.Printf("\n--- %s ---\n", repoName)
	fmt.Printf("Last version: %s, %d PR's since then\n", current.Tag(), len(entries))
	for _, entry := range entries {
		fmt.Printf(" - #%d %s\n", entry.Number, entry.Title)
	}

	choices := NextChoices(current)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   fmt.Sprintf("%s {{ .Label | cyan | underline }} ({{ .Version | green }})", promptui.Styler(promptui.FGGreen)("⇨")),
		Inactive: "  {{ .Label | cyan }} ({{ .Version | green }})",
		Selected: fmt.Sprintf("%s {{ .Label }} to {{ .Version | green | cyan }}", promptui.IconGood),
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf(
			"Last version was %s, shall we bump",
			current.Tag(),
		),
		Items:     choices,
		Templates: templates,
		Size:      len(choices),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	if i == 0 { // skip release
		return nil, nil
	}
	return choices[i].Version, nil
}

// ConfirmRelease asks before a release is published.
func ConfirmRelease(repoName string, v *version.Version) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Release %s %s", repoName, v.Tag()),
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
