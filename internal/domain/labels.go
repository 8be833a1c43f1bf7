package domain

// Curated commit flags assigned by the dataset authors.
const (
	// FlagValidatedBugfix marks a commit confirmed to be a bug fix by both
	// developers and researchers.
	FlagValidatedBugfix = "validated_bugfix"
	// FlagHasLabeledLines marks a commit whose changed lines were manually
	// labelled.
	FlagHasLabeledLines = "has_labeled_lines"
)

// Manual line labels that represent changes to the code itself. All other
// labels (test, documentation, whitespace) are excluded from the ground truth.
const (
	LabelBugfix      = "bugfix"
	LabelRefactoring = "refactoring"
	LabelUnrelated   = "unrelated"
	LabelNoBugfix    = "no_bugfix"
)

// Ground truth groups. The untangling evaluation only distinguishes lines
// that fix the bug from lines that do not.
const (
	GroupBugfix    = "bugfix"
	GroupNonBugfix = "nonbugfix"
)

// CodeGroup maps a manual line label to its ground truth group. The second
// return value is false for labels that do not represent a code change.
func CodeGroup(label string) (string, bool) {
	switch label {
	case LabelBugfix:
		return GroupBugfix, true
	case LabelRefactoring, LabelUnrelated, LabelNoBugfix:
		return GroupNonBugfix, true
	default:
		return "", false
	}
}

// IsCodeLabel reports whether the label marks a code change.
func IsCodeLabel(label string) bool {
	_, ok := CodeGroup(label)
	return ok
}
