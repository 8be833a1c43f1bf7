package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/montanaflynn/stats"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
	"github.com/untangling-bench/lltc4j-export/internal/gateway"
)

// TangledReporter is the use case for reporting commits whose manual labels
// overlap: lines carrying more than one label, and hunks mixing bug-fixing
// and non-bug-fixing code changes.
type TangledReporter struct {
	store  gateway.Store
	logger *log.Logger
}

// NewTangledReporter creates a new TangledReporter instance.
func NewTangledReporter(store gateway.Store, logger *log.Logger) *TangledReporter {
	return &TangledReporter{
		store:  store,
		logger: logger,
	}
}

// TangleCount holds the tangle counts for a single commit.
type TangleCount struct {
	CommitHash   string
	TangledLines int
	TangledHunks int
}

// Report reads an exported commit list CSV, looks up each commit in the
// store and writes per-commit tangle counts to w, followed by a summary with
// the mean and median tangled line count per commit.
func (r *TangledReporter) Report(ctx context.Context, commitsFile string, w io.Writer) error {
	f, err := os.Open(commitsFile)
	if err != nil {
		return fmt.Errorf("failed to open commits file: %w", err)
	}
	defer f.Close()

	hashes, err := readCommitHashes(f)
	if err != nil {
		return err
	}
	r.logger.Printf("Usecase: checking %d commits for tangled labels...", len(hashes))

	counts := make([]TangleCount, 0, len(hashes))
	for _, hash := range hashes {
		commit, err := r.store.CommitByHash(ctx, hash)
		if err != nil {
			return err
		}
		count, err := r.countTangles(ctx, *commit)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %d tangled lines, %d tangled hunks\n", count.CommitHash, count.TangledLines, count.TangledHunks)
		counts = append(counts, count)
	}

	return writeSummary(w, counts)
}

// countTangles counts the tangles of a commit within the scope of the ground
// truth: only single-parent commits, and only hunks in non-test Java files.
// Labels in test files, documentation and other artifacts never reach the
// evaluation framework, so they do not count as tangles either.
func (r *TangledReporter) countTangles(ctx context.Context, commit domain.Commit) (TangleCount, error) {
	count := TangleCount{CommitHash: commit.RevisionHash}
	if len(commit.Parents) != 1 {
		return count, nil
	}

	actions, err := r.store.FileActions(ctx, commit.ID)
	if err != nil {
		return count, err
	}
	for _, fa := range actions {
		file, err := changedFile(ctx, r.store, fa)
		if err != nil {
			return count, err
		}
		if !isRelevantSourceFile(file.Path) {
			continue
		}
		hunks, err := r.store.Hunks(ctx, fa.ID)
		if err != nil {
			return count, err
		}
		for _, hunk := range hunks {
			count.TangledLines += tangledLinesInHunk(hunk)
			if isTangledHunk(hunk) {
				count.TangledHunks++
			}
		}
	}
	return count, nil
}

// tangledLinesInHunk counts the lines that the dataset authors labelled with
// more than one change type.
func tangledLinesInHunk(hunk domain.Hunk) int {
	seen := make(map[int]bool)
	tangled := 0
	for _, label := range sortedLabels(hunk.LinesVerified) {
		for _, offset := range hunk.LinesVerified[label] {
			if seen[offset] {
				tangled++
			}
			seen[offset] = true
		}
	}
	return tangled
}

// isTangledHunk reports whether the hunk mixes bug-fixing and
// non-bug-fixing code changes. Non-code labels do not count.
func isTangledHunk(hunk domain.Hunk) bool {
	groups := make(map[string]bool)
	for label := range hunk.LinesVerified {
		group, ok := domain.CodeGroup(label)
		if !ok {
			continue
		}
		groups[group] = true
	}
	return len(groups) == 2
}

// readCommitHashes extracts the commit_hash column from an exported commit
// list.
func readCommitHashes(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read commits file header: %w", err)
	}
	hashColumn := -1
	for i, name := range header {
		if name == "commit_hash" {
			hashColumn = i
			break
		}
	}
	if hashColumn < 0 {
		return nil, fmt.Errorf("commits file has no commit_hash column, got header %v", header)
	}

	var hashes []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read commits file row: %w", err)
		}
		hashes = append(hashes, record[hashColumn])
	}
	return hashes, nil
}

func writeSummary(w io.Writer, counts []TangleCount) error {
	totalLines, totalHunks := 0, 0
	perCommit := make([]float64, 0, len(counts))
	for _, count := range counts {
		totalLines += count.TangledLines
		totalHunks += count.TangledHunks
		perCommit = append(perCommit, float64(count.TangledLines))
	}

	mean, median := 0.0, 0.0
	if len(perCommit) > 0 {
		var err error
		if mean, err = stats.Mean(perCommit); err != nil {
			return fmt.Errorf("failed to compute mean: %w", err)
		}
		if median, err = stats.Median(perCommit); err != nil {
			return fmt.Errorf("failed to compute median: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "\n%d commits: %d tangled lines, %d tangled hunks (mean %.2f, median %.1f tangled lines per commit)\n",
		len(counts), totalLines, totalHunks, mean, median)
	return err
}
