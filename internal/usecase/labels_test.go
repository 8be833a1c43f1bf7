package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
)

func TestLabelPrinter_Print(t *testing.T) {
	commitID := primitive.NewObjectID()
	actionID := primitive.NewObjectID()

	store := new(mockStore)
	store.On("CommitByHash", mock.Anything, "abc123").
		Return(&domain.Commit{ID: commitID, RevisionHash: "abc123", Parents: []string{"p1"}}, nil)
	store.On("FileActions", mock.Anything, commitID).
		Return([]domain.FileAction{{ID: actionID, CommitID: commitID}}, nil)
	store.On("Hunks", mock.Anything, actionID).
		Return([]domain.Hunk{
			makeHunk(t, 42, 42,
				map[string][]int{"bugfix": {0, 2}, "whitespace": {1}},
				[]string{"- old call", "+ ", "+ new call"}),
		}, nil)

	printer := NewLabelPrinter(store, discardLogger())

	var buf bytes.Buffer
	err := printer.Print(context.Background(), "abc123", &buf)

	require.NoError(t, err)
	assert.Equal(t, "bugfix -> - old call\n"+
		"bugfix -> + new call\n"+
		"whitespace -> + \n"+
		"Labels: bugfix, whitespace\n",
		buf.String())
	store.AssertExpectations(t)
}

func TestLabelPrinter_Print_UnknownCommit(t *testing.T) {
	store := new(mockStore)
	store.On("CommitByHash", mock.Anything, "nope").
		Return(nil, errors.New("failed to look up commit nope"))

	printer := NewLabelPrinter(store, discardLogger())

	var buf bytes.Buffer
	err := printer.Print(context.Background(), "nope", &buf)

	assert.Error(t, err)
	assert.Empty(t, buf.String())
	store.AssertExpectations(t)
}
