package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, u := range []User{
		{Firstname: "prasan", Lastname: "bala", Username: "pv", Password: "h1"},
		{Firstname: "ganesh", Lastname: "siva", Username: "gs", Password: "h2"},
		{Firstname: "karthikeya", Lastname: "siva", Username: "ks", Password: "h3"},
	} {
		_, err := repo.Create(ctx, u)
		require.NoError(t, err)
	}
	return repo
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	repo := seed(t)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(3), users[2].ID)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo := seed(t)

	_, err := repo.Create(context.Background(), User{Username: "pv"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSearch_MatchesFirstOrLastName(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	got, err := repo.Search(ctx, "siva")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// "an" sits in both "prasan" and "ganesh".
	got, err = repo.Search(ctx, "an")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.Search(ctx, "pras")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pv", got[0].Username)

	got, err = repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMerge_KeepsOmittedFields(t *testing.T) {
	repo := seed(t)

	lastname := "kumar"
	got, err := repo.Merge(context.Background(), "pv", Partial{Lastname: &lastname})
	require.NoError(t, err)

	assert.Equal(t, "prasan", got.Firstname)
	assert.Equal(t, "kumar", got.Lastname)
}

func TestMerge_UnknownUsername(t *testing.T) {
	repo := seed(t)

	_, err := repo.Merge(context.Background(), "ghost", Partial{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsert_UpdatesExisting(t *testing.T) {
	repo := seed(t)

	got, err := repo.Upsert(context.Background(), User{
		Firstname: "prasanna",
		Lastname:  "venkat",
		Username:  "pv",
		Password:  "new-hash",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID, "id must survive the overwrite")
	assert.Equal(t, "prasanna", got.Firstname)
	assert.Equal(t, "h1", got.Password, "existing password must be kept")
}

func TestUpsert_CreatesMissing(t *testing.T) {
	repo := seed(t)

	got, err := repo.Upsert(context.Background(), User{
		Firstname: "newbie",
		Lastname:  "person",
		Username:  "np",
		Password:  "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)

	found, err := repo.GetByUsername(context.Background(), "np")
	require.NoError(t, err)
	assert.Equal(t, "newbie", found.Firstname)
}

func TestDelete(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	deleted, err := repo.Delete(ctx, "gs")
	require.NoError(t, err)
	assert.Equal(t, "ganesh", deleted.Firstname)

	_, err = repo.GetByUsername(ctx, "gs")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Delete(ctx, "gs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID(t *testing.T) {
	repo := seed(t)

	got, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "gs", got.Username)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
