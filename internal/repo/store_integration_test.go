package repo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/devconnector/internal/domain"
	"github.com/tazhibayda/devconnector/internal/repo"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("mongo container test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	mc, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mc.Terminate(context.Background()) })

	uri, err := mc.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := repo.NewStore(ctx, uri, "devconnector_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestStore_Users(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	u := &domain.User{Name: "John", Email: "john@example.com", Avatar: "//gravatar", Password: "hash"}
	require.NoError(t, store.CreateUser(ctx, u))
	assert.False(t, u.ID.IsZero())
	assert.WithinDuration(t, time.Now(), u.Date, time.Minute)

	got, err := store.FindUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	byID, err := store.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", byID.Name)

	missing, err := store.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = store.CreateUser(ctx, &domain.User{Name: "Other", Email: "john@example.com"})
	assert.ErrorIs(t, err, repo.ErrEmailExists)
}

func TestStore_ProfileUpsertMergesAndPopulates(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	u := &domain.User{Name: "Ann", Email: "ann@example.com", Avatar: "//gravatar/ann"}
	require.NoError(t, store.CreateUser(ctx, u))

	none, err := store.FindProfileByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	p, created, err := store.UpsertProfile(ctx, u.ID, domain.ProfileFields{
		Status:  "Developer",
		Skills:  []string{"go", "mongo"},
		Company: "Acme",
		Social:  domain.Social{Twitter: "t", YouTube: "y"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, u.ID, p.User)
	firstDate := p.Date

	p2, created, err := store.UpsertProfile(ctx, u.ID, domain.ProfileFields{
		Status: "Senior",
		Skills: []string{"rust"},
		Social: domain.Social{Twitter: "t2"},
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, p2.ID)
	assert.Equal(t, "Senior", p2.Status)
	assert.Equal(t, "Acme", p2.Company)
	assert.Equal(t, []string{"rust"}, p2.Skills)
	assert.Equal(t, domain.Social{Twitter: "t2", YouTube: "y"}, p2.Social)
	assert.WithinDuration(t, firstDate, p2.Date, time.Millisecond)

	view, err := store.FindProfileByUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.NotNil(t, view.User)
	assert.Equal(t, domain.UserSummary{ID: u.ID, Name: "Ann", Avatar: "//gravatar/ann"}, *view.User)
	assert.Equal(t, "Senior", view.Status)
}

func TestStore_ConcurrentFirstWritesYieldOneProfile(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	uid := primitive.NewObjectID()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.UpsertProfile(ctx, uid, domain.ProfileFields{Status: "Dev", Skills: []string{"go"}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	n, err := store.DB.Collection("profiles").CountDocuments(ctx, bson.M{"user": uid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
