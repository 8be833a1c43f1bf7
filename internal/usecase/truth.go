package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
	"github.com/untangling-bench/lltc4j-export/internal/gateway"
)

// TruthExporter is the use case for exporting the full dataset: the commit
// list plus a per-commit ground truth file labelling every changed code line.
type TruthExporter struct {
	store  gateway.Store
	logger *log.Logger
}

// NewTruthExporter creates a new TruthExporter instance.
func NewTruthExporter(store gateway.Store, logger *log.Logger) *TruthExporter {
	return &TruthExporter{
		store:  store,
		logger: logger,
	}
}

// Export writes the ground truth dataset under outDir. Each exported commit
// gets a <project>_<short-hash>/truth.csv file, and the commit list is
// written to <outDir>/lltc4j-commits.csv. It returns the number of exported
// commits.
//
// Only validated bug-fixing commits with exactly one parent are exported:
// with several parents it is ambiguous which one the lines were labelled
// against. Commits whose labelled changes are all in test files,
// documentation or whitespace produce no ground truth rows and are skipped.
func (t *TruthExporter) Export(ctx context.Context, projects []string, number int, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	storedProjects, err := t.store.Projects(ctx, projects)
	if err != nil {
		return 0, err
	}

	rows := make([]domain.ExportRow, 0)
	for _, project := range storedProjects {
		if number > 0 && len(rows) >= number {
			break
		}
		t.logger.Printf("Usecase: processing project %s", project.Name)

		vcs, err := t.store.VCSSystem(ctx, project.ID)
		if err != nil {
			return len(rows), err
		}
		commits, err := t.store.ValidatedBugfixCommits(ctx, vcs.ID)
		if err != nil {
			return len(rows), err
		}
		for _, commit := range commits {
			if number > 0 && len(rows) >= number {
				break
			}
			if len(commit.Parents) != 1 {
				continue
			}
			truth, err := t.groundTruth(ctx, commit)
			if err != nil {
				return len(rows), err
			}
			if len(truth) == 0 {
				continue
			}
			if err := writeTruthFile(outDir, project.Name, commit.RevisionHash, truth); err != nil {
				return len(rows), err
			}
			rows = append(rows, domain.ExportRow{
				ProjectName: project.Name,
				VCSURL:      vcs.URL,
				CommitHash:  commit.RevisionHash,
				ParentHash:  commit.Parents[0],
			})
		}
	}

	if err := t.writeCommitList(outDir, rows); err != nil {
		return len(rows), err
	}
	t.logger.Printf("Usecase: exported ground truth for %d commits.", len(rows))
	return len(rows), nil
}

// groundTruth collects the labelled code lines of a commit across all its
// file actions, excluding non-Java and Java test files.
func (t *TruthExporter) groundTruth(ctx context.Context, commit domain.Commit) ([]domain.LineLabel, error) {
	actions, err := t.store.FileActions(ctx, commit.ID)
	if err != nil {
		return nil, err
	}

	var truth []domain.LineLabel
	for _, fa := range actions {
		file, err := changedFile(ctx, t.store, fa)
		if err != nil {
			return nil, err
		}
		if !isRelevantSourceFile(file.Path) {
			continue
		}
		hunks, err := t.store.Hunks(ctx, fa.ID)
		if err != nil {
			return nil, err
		}
		for _, label := range LabelLines(hunks) {
			label.File = file.Path
			truth = append(truth, label)
		}
	}
	return truth, nil
}

// changedFile resolves the file a file action applies to. Renamed files are
// exported under their new path so the line numbers match what the
// evaluation framework computes from the diff; deleted files only have an
// old path.
func changedFile(ctx context.Context, store gateway.Store, fa domain.FileAction) (*domain.File, error) {
	var file *domain.File
	var err error
	if !fa.OldFileID.IsZero() {
		file, err = store.FileByID(ctx, fa.OldFileID)
		if err != nil {
			return nil, err
		}
	}
	if file == nil || fa.Mode == "R" {
		file, err = store.FileByID(ctx, fa.FileID)
		if err != nil {
			return nil, err
		}
	}
	return file, nil
}

// LabelLines flattens the manually verified line labels of the given hunks
// into ground truth rows. Lines whose label does not represent a code change
// are skipped, as are context lines. A modified line appears as two rows: one
// for the deleted line and one for the added line.
func LabelLines(hunks []domain.Hunk) []domain.LineLabel {
	var out []domain.LineLabel
	for _, hunk := range hunks {
		lines := strings.Split(hunk.Content, "\n")
		for _, label := range sortedLabels(hunk.LinesVerified) {
			group, ok := domain.CodeGroup(label)
			if !ok {
				continue
			}
			for _, offset := range hunk.LinesVerified[label] {
				if offset < 0 || offset >= len(lines) {
					continue
				}
				switch {
				case strings.HasPrefix(lines[offset], "-"):
					source := hunk.OldStart + offset
					out = append(out, domain.LineLabel{Source: &source, Group: group})
				case strings.HasPrefix(lines[offset], "+"):
					target := hunk.NewStart + offset - hunk.OldLines
					out = append(out, domain.LineLabel{Target: &target, Group: group})
				}
			}
		}
	}
	return out
}

// isRelevantSourceFile reports whether ground truth is exported for the file.
// The dataset labels test changes separately, so Java test files are excluded
// along with everything that is not Java source.
func isRelevantSourceFile(path string) bool {
	return strings.HasSuffix(path, ".java") &&
		!strings.HasSuffix(path, "Test.java") &&
		!strings.Contains(path, "src/test")
}

func writeTruthFile(outDir, projectName, revisionHash string, truth []domain.LineLabel) error {
	commitDir := filepath.Join(outDir, fmt.Sprintf("%s_%s", projectName, shortHash(revisionHash)))
	if err := os.MkdirAll(commitDir, 0o755); err != nil {
		return fmt.Errorf("failed to create commit directory: %w", err)
	}

	f, err := os.Create(filepath.Join(commitDir, "truth.csv"))
	if err != nil {
		return fmt.Errorf("failed to create ground truth file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(domain.TruthHeader); err != nil {
		return fmt.Errorf("failed to write ground truth header: %w", err)
	}
	for _, label := range truth {
		if err := cw.Write(label.Record()); err != nil {
			return fmt.Errorf("failed to write ground truth row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush ground truth file: %w", err)
	}
	return nil
}

func (t *TruthExporter) writeCommitList(outDir string, rows []domain.ExportRow) error {
	f, err := os.Create(filepath.Join(outDir, "lltc4j-commits.csv"))
	if err != nil {
		return fmt.Errorf("failed to create commit list file: %w", err)
	}
	defer f.Close()
	return WriteCommitList(f, rows)
}

func shortHash(revisionHash string) string {
	if len(revisionHash) < 6 {
		return revisionHash
	}
	return revisionHash[:6]
}

// sortedLabels returns the label keys in a stable order. Map iteration order
// would otherwise make repeated exports of the same snapshot differ.
func sortedLabels(linesVerified map[string][]int) []string {
	labels := make([]string, 0, len(linesVerified))
	for label := range linesVerified {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
