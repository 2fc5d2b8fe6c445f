package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simcheck/simcheck/internal/model"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/test/testutil"
)

func seedRepo(t *testing.T) *repo.AssignmentRepo {
	t.Helper()
	db, cleanup := testutil.OpenTestDB(t)
	t.Cleanup(cleanup)
	return repo.NewAssignmentRepo(db)
}

func makeAssignment(id string, ctime int64) *model.Assignment {
	return &model.Assignment{
		ID:       id,
		Title:    "title-" + id,
		Filename: id + ".txt",
		FilePath: "/uploads/" + id + ".txt",
		Ext:      "txt",
		Size:     42,
		Ctime:    ctime,
	}
}

func TestAssignmentCreateGet(t *testing.T) {
	r := seedRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, makeAssignment("a1", time.Now().Unix())))

	got, err := r.Get(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, "title-a1", got.Title)
	require.Equal(t, "a1.txt", got.Filename)

	_, err = r.Get(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestAssignmentGetByIDsKeepsOrder(t *testing.T) {
	r := seedRepo(t)
	ctx := context.Background()
	now := time.Now().Unix()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Create(ctx, makeAssignment(id, now)))
	}

	rows, err := r.GetByIDs(ctx, []string{"c", "a", "nope", "b"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "c", rows[0].ID)
	require.Equal(t, "a", rows[1].ID)
	require.Equal(t, "b", rows[2].ID)

	rows, err = r.GetByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestAssignmentListNewestFirst(t *testing.T) {
	r := seedRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, makeAssignment("old", 100)))
	require.NoError(t, r.Create(ctx, makeAssignment("new", 200)))

	rows, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "new", rows[0].ID)
	require.Equal(t, "old", rows[1].ID)
}

func TestAssignmentDelete(t *testing.T) {
	r := seedRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, makeAssignment("gone", time.Now().Unix())))
	require.NoError(t, r.Delete(ctx, "gone"))
	require.ErrorIs(t, r.Delete(ctx, "gone"), appErr.ErrNotFound)
}
