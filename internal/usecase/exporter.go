// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
	"github.com/untangling-bench/lltc4j-export/internal/gateway"
)

// Exporter is the use case for exporting the list of validated bug-fixing
// commits with manually labelled lines.
type Exporter struct {
	store  gateway.Store
	logger *log.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(store gateway.Store, logger *log.Logger) *Exporter {
	return &Exporter{
		store:  store,
		logger: logger,
	}
}

// Export queries the store for commits carrying both curated flags, flattens
// them into export rows and writes them to w as CSV. Projects restricts the
// export to the named projects; number caps the total row count when
// positive. It returns the number of exported commits.
//
// Zero matching commits is not an error: the header row is still written so
// that the downstream consumer sees a well-formed, empty dataset rather than
// a file indistinguishable from a truncated export.
func (e *Exporter) Export(ctx context.Context, projects []string, number int, w io.Writer) (int, error) {
	e.logger.Println("Usecase: starting commit list export...")

	rows, err := e.collectRows(ctx, projects, number)
	if err != nil {
		return 0, err
	}

	if err := WriteCommitList(w, rows); err != nil {
		return 0, err
	}
	e.logger.Printf("Usecase: exported %d commits.", len(rows))
	return len(rows), nil
}

func (e *Exporter) collectRows(ctx context.Context, projects []string, number int) ([]domain.ExportRow, error) {
	storedProjects, err := e.store.Projects(ctx, projects)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ExportRow, 0)
	for _, project := range storedProjects {
		if number > 0 && len(rows) >= number {
			break
		}
		e.logger.Printf("Usecase: processing project %s", project.Name)

		vcs, err := e.store.VCSSystem(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		commits, err := e.store.LabelledBugfixCommits(ctx, vcs.ID)
		if err != nil {
			return nil, err
		}
		for _, commit := range commits {
			if number > 0 && len(rows) >= number {
				break
			}
			rows = append(rows, domain.ExportRow{
				ProjectName: project.Name,
				VCSURL:      vcs.URL,
				CommitHash:  commit.RevisionHash,
				ParentHash:  commit.FirstParent(),
			})
		}
	}
	return rows, nil
}

// WriteCommitList serializes rows as the commit list CSV, header first.
func WriteCommitList(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}
