package usecase

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
)

func TestTangledLinesInHunk(t *testing.T) {
	testCases := []struct {
		name     string
		hunk     domain.Hunk
		expected int
	}{
		{
			name:     "no labels",
			hunk:     domain.Hunk{},
			expected: 0,
		},
		{
			name: "disjoint labels are not tangled",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix":      {0, 2},
				"refactoring": {1},
			}},
			expected: 0,
		},
		{
			name: "one line with two labels",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix":      {0, 1},
				"refactoring": {1},
			}},
			expected: 1,
		},
		{
			name: "non-code labels also tangle",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix":     {0},
				"whitespace": {0},
			}},
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tangledLinesInHunk(tc.hunk))
		})
	}
}

func TestIsTangledHunk(t *testing.T) {
	testCases := []struct {
		name     string
		hunk     domain.Hunk
		expected bool
	}{
		{
			name: "fix and non-fix code labels mix",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix":      {0},
				"refactoring": {1},
			}},
			expected: true,
		},
		{
			name: "fix plus non-code label does not count",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix":     {0},
				"whitespace": {1},
			}},
			expected: false,
		},
		{
			name: "pure bugfix hunk",
			hunk: domain.Hunk{LinesVerified: map[string][]int{
				"bugfix": {0, 1},
			}},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isTangledHunk(tc.hunk))
		})
	}
}

func TestTangledReporter_Report(t *testing.T) {
	tangledCommitID := primitive.NewObjectID()
	cleanCommitID := primitive.NewObjectID()
	tangledActionID := primitive.NewObjectID()
	testActionID := primitive.NewObjectID()
	cleanActionID := primitive.NewObjectID()
	sourceFileID := primitive.NewObjectID()
	testFileID := primitive.NewObjectID()
	cleanFileID := primitive.NewObjectID()

	store := new(mockStore)
	store.On("CommitByHash", mock.Anything, "abc123").
		Return(&domain.Commit{ID: tangledCommitID, RevisionHash: "abc123", Parents: []string{"p1"}}, nil)
	store.On("CommitByHash", mock.Anything, "def456").
		Return(&domain.Commit{ID: cleanCommitID, RevisionHash: "def456", Parents: []string{"p2"}}, nil)
	store.On("FileActions", mock.Anything, tangledCommitID).
		Return([]domain.FileAction{
			{ID: tangledActionID, CommitID: tangledCommitID, OldFileID: sourceFileID, Mode: "M"},
			{ID: testActionID, CommitID: tangledCommitID, OldFileID: testFileID, Mode: "M"},
		}, nil)
	store.On("FileActions", mock.Anything, cleanCommitID).
		Return([]domain.FileAction{
			{ID: cleanActionID, CommitID: cleanCommitID, OldFileID: cleanFileID, Mode: "M"},
		}, nil)
	store.On("FileByID", mock.Anything, sourceFileID).
		Return(&domain.File{ID: sourceFileID, Path: "src/main/java/Foo.java"}, nil)
	store.On("FileByID", mock.Anything, testFileID).
		Return(&domain.File{ID: testFileID, Path: "src/test/java/FooTest.java"}, nil)
	store.On("FileByID", mock.Anything, cleanFileID).
		Return(&domain.File{ID: cleanFileID, Path: "src/main/java/Bar.java"}, nil)
	store.On("Hunks", mock.Anything, tangledActionID).
		Return([]domain.Hunk{
			{LinesVerified: map[string][]int{"bugfix": {0, 1}, "refactoring": {1}}},
			{LinesVerified: map[string][]int{"bugfix": {0}, "unrelated": {0}}},
		}, nil)
	store.On("Hunks", mock.Anything, cleanActionID).
		Return([]domain.Hunk{
			{LinesVerified: map[string][]int{"bugfix": {0}}},
		}, nil)

	commitsFile := filepath.Join(t.TempDir(), "commits.csv")
	require.NoError(t, os.WriteFile(commitsFile, []byte(
		"project_name,vcs_url,commit_hash,parent_hash\n"+
			"giraph,https://github.com/apache/giraph.git,abc123,p1\n"+
			"giraph,https://github.com/apache/giraph.git,def456,p2\n"), 0o644))

	reporter := NewTangledReporter(store, discardLogger())

	var buf bytes.Buffer
	err := reporter.Report(context.Background(), commitsFile, &buf)

	require.NoError(t, err)
	assert.Equal(t, "abc123: 2 tangled lines, 2 tangled hunks\n"+
		"def456: 0 tangled lines, 0 tangled hunks\n"+
		"\n2 commits: 2 tangled lines, 2 tangled hunks (mean 1.00, median 1.0 tangled lines per commit)\n",
		buf.String())
	// Labels in the test file are outside the ground truth scope and must
	// never be counted, so its hunks are never fetched.
	store.AssertNotCalled(t, "Hunks", mock.Anything, testActionID)
	store.AssertExpectations(t)
}

// TestTangledReporter_Report_MergeCommit checks that commits with more than
// one parent report zero tangles: the lines were labelled against a single
// parent, so tangle counts are undefined for merges.
func TestTangledReporter_Report_MergeCommit(t *testing.T) {
	mergeCommitID := primitive.NewObjectID()

	store := new(mockStore)
	store.On("CommitByHash", mock.Anything, "abc123").
		Return(&domain.Commit{ID: mergeCommitID, RevisionHash: "abc123", Parents: []string{"p1", "p2"}}, nil)

	commitsFile := filepath.Join(t.TempDir(), "commits.csv")
	require.NoError(t, os.WriteFile(commitsFile, []byte(
		"project_name,vcs_url,commit_hash,parent_hash\n"+
			"giraph,https://github.com/apache/giraph.git,abc123,p1\n"), 0o644))

	reporter := NewTangledReporter(store, discardLogger())

	var buf bytes.Buffer
	err := reporter.Report(context.Background(), commitsFile, &buf)

	require.NoError(t, err)
	assert.Equal(t, "abc123: 0 tangled lines, 0 tangled hunks\n"+
		"\n1 commits: 0 tangled lines, 0 tangled hunks (mean 0.00, median 0.0 tangled lines per commit)\n",
		buf.String())
	store.AssertNotCalled(t, "FileActions", mock.Anything, mergeCommitID)
	store.AssertExpectations(t)
}

func TestTangledReporter_Report_MissingFile(t *testing.T) {
	reporter := NewTangledReporter(new(mockStore), discardLogger())

	var buf bytes.Buffer
	err := reporter.Report(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), &buf)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open commits file")
}

func TestTangledReporter_Report_MissingHashColumn(t *testing.T) {
	commitsFile := filepath.Join(t.TempDir(), "commits.csv")
	require.NoError(t, os.WriteFile(commitsFile, []byte("a,b\n1,2\n"), 0o644))

	reporter := NewTangledReporter(new(mockStore), discardLogger())

	var buf bytes.Buffer
	err := reporter.Report(context.Background(), commitsFile, &buf)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no commit_hash column")
}
