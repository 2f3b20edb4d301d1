//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"hamon/pkg/testutil"
	"hamon/pkg/testutil/containers"
)

func TestPostgresStoreSave(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.TruncateAll(ctx))
	store := NewPostgres(pg.DB)

	withPhone := testutil.NewSubmissionBuilder().WithPhone("+15551234567").Build()
	require.NoError(t, store.Save(ctx, withPhone))
	require.NoError(t, store.Save(ctx, testutil.NewSubmissionBuilder().Build()))

	var phones int
	require.NoError(t, pg.DB.QueryRowContext(ctx,
		`SELECT COUNT(phone) FROM contact_submissions`).Scan(&phones))
	require.Equal(t, 1, phones)
}
