package postgres_test

import (
	"context"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"

	"webmention/internal/mention"
)

func TestPgSQL_AddJob(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	args := mention.JobArgs{Source: "http://a.example/", Target: "http://b.example/"}

	added, err := pg.AddJob(ctx, args, nil)
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB),
		&mention.JobArgs{},
		&rivertest.RequireInsertedOpts{MaxAttempts: 1},
	)

	// resubmitting a waiting pair queues a second job
	added, err = pg.AddJob(ctx, args, nil)
	require.NoError(t, err)
	require.True(t, added)

	added, err = pg.AddJob(ctx, mention.JobArgs{Source: "http://a.example/other", Target: "http://b.example/"}, &river.InsertOpts{})
	require.NoError(t, err)
	require.True(t, added)

	var jobs int
	require.NoError(t, pg.DB.QueryRowContext(ctx,
		"SELECT count(*) FROM river_job WHERE kind = $1", args.Kind()).Scan(&jobs))
	require.Equal(t, 3, jobs)
}
