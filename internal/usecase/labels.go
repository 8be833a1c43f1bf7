package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/untangling-bench/lltc4j-export/internal/gateway"
)

// LabelPrinter is the use case for dumping the manual labels of a single
// commit, line by line. It is a debugging aid for inspecting how the dataset
// authors labelled a commit.
type LabelPrinter struct {
	store  gateway.Store
	logger *log.Logger
}

// NewLabelPrinter creates a new LabelPrinter instance.
func NewLabelPrinter(store gateway.Store, logger *log.Logger) *LabelPrinter {
	return &LabelPrinter{
		store:  store,
		logger: logger,
	}
}

// Print writes every labelled line of the commit to w as "<label> -> <line>",
// followed by the set of distinct labels seen in the commit. Unlike the
// exports, it covers all files and labels, code or not.
func (p *LabelPrinter) Print(ctx context.Context, revisionHash string, w io.Writer) error {
	commit, err := p.store.CommitByHash(ctx, revisionHash)
	if err != nil {
		return err
	}

	actions, err := p.store.FileActions(ctx, commit.ID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, fa := range actions {
		hunks, err := p.store.Hunks(ctx, fa.ID)
		if err != nil {
			return err
		}
		for _, hunk := range hunks {
			lines := strings.Split(hunk.Content, "\n")
			for _, label := range sortedLabels(hunk.LinesVerified) {
				seen[label] = true
				for _, offset := range hunk.LinesVerified[label] {
					if offset < 0 || offset >= len(lines) {
						continue
					}
					fmt.Fprintf(w, "%s -> %s\n", label, lines[offset])
				}
			}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	_, err = fmt.Fprintf(w, "Labels: %s\n", strings.Join(labels, ", "))
	return err
}
