// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a software project covered by the SmartSHARK dataset.
type Project struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// VCSSystem is the version control system of a project. Every project in the
// dataset has exactly one.
type VCSSystem struct {
	ID        primitive.ObjectID `bson:"_id"`
	URL       string             `bson:"url"`
	ProjectID primitive.ObjectID `bson:"project_id"`
}

// Commit is a single commit mined from a project's version control system.
// Labels holds the curated boolean flags assigned by the dataset authors
// during the manual validation rounds. Commits are read-only: this tool never
// writes back to the store.
type Commit struct {
	ID           primitive.ObjectID `bson:"_id"`
	VCSSystemID  primitive.ObjectID `bson:"vcs_system_id"`
	RevisionHash string             `bson:"revision_hash"`
	Parents      []string           `bson:"parents"`
	Labels       map[string]bool    `bson:"labels"`
}

// FirstParent returns the hash of the commit's first parent, or the empty
// string for a parentless commit.
func (c Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// FileAction records how one file was touched by a commit. Mode "R" marks a
// rename; a deleted file has no FileID, only an OldFileID.
type FileAction struct {
	ID        primitive.ObjectID `bson:"_id"`
	CommitID  primitive.ObjectID `bson:"commit_id"`
	FileID    primitive.ObjectID `bson:"file_id,omitempty"`
	OldFileID primitive.ObjectID `bson:"old_file_id,omitempty"`
	Mode      string             `bson:"mode"`
}

// File is a file path as tracked by the dataset.
type File struct {
	ID   primitive.ObjectID `bson:"_id"`
	Path string             `bson:"path"`
}

// Hunk is one contiguous block of changed lines in a file action's diff.
// LinesVerified maps a manual line label to the offsets (relative to the
// first line of Content) of the lines carrying that label.
type Hunk struct {
	ID            primitive.ObjectID `bson:"_id"`
	FileActionID  primitive.ObjectID `bson:"file_action_id"`
	OldStart      int                `bson:"old_start"`
	OldLines      int                `bson:"old_lines"`
	NewStart      int                `bson:"new_start"`
	NewLines      int                `bson:"new_lines"`
	Content       string             `bson:"content"`
	LinesVerified map[string][]int   `bson:"lines_verified"`
}

// ExportHeader is the column set of the exported commit list. The downstream
// evaluation framework parses the file by these exact names.
var ExportHeader = []string{"project_name", "vcs_url", "commit_hash", "parent_hash"}

// ExportRow is the flattened form of one exported commit. It is created at
// export time and never mutated afterwards.
type ExportRow struct {
	ProjectName string
	VCSURL      string
	CommitHash  string
	ParentHash  string
}

// Record returns the row in the column order of ExportHeader.
func (r ExportRow) Record() []string {
	return []string{r.ProjectName, r.VCSURL, r.CommitHash, r.ParentHash}
}

// TruthHeader is the column set of a per-commit ground truth file.
var TruthHeader = []string{"file", "source", "target", "group"}

// LineLabel is one ground truth row: a single changed code line with its
// group. Exactly one of Source and Target is set, depending on whether the
// line was deleted from the old file or added to the new file.
type LineLabel struct {
	File   string
	Source *int
	Target *int
	Group  string
}

// Record returns the row in the column order of TruthHeader. An unset line
// number serializes as an empty field.
func (l LineLabel) Record() []string {
	rec := []string{l.File, "", "", l.Group}
	if l.Source != nil {
		rec[1] = strconv.Itoa(*l.Source)
	}
	if l.Target != nil {
		rec[2] = strconv.Itoa(*l.Target)
	}
	return rec
}
