package integrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/staging"
)

const stagingBucket = "aer-raw-reports-test"

func setupS3Store(t *testing.T, ctx context.Context) *staging.S3Store {
	t.Helper()

	endpoint := setupMinioContainer(t, ctx)

	store, err := staging.NewS3Store(ctx, stagingBucket, staging.S3ClientConfig{
		Endpoint:        endpoint,
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
		Region:          "us-east-1",
	})
	require.NoError(t, err)
	require.NoError(t, store.CreateBucket(ctx))

	return store
}

func TestS3StoreRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store := setupS3Store(t, ctx)

	obj := staging.Object{
		Key:         "2024/06/10/st1_20240610.txt",
		Body:        []byte("LICENCE NO   COMPANY NAME"),
		ContentType: "text/plain",
		Metadata:    map[string]string{"dataset": "ST1", "sha256": "abc"},
	}

	require.NoError(t, store.Put(ctx, obj))

	got, err := store.Get(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, obj.Body, got)

	require.NoError(t, store.Delete(ctx, obj.Key))

	_, err = store.Get(ctx, obj.Key)
	assert.ErrorIs(t, err, staging.ErrObjectNotFound)
}

func TestS3StoreOverwrite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store := setupS3Store(t, ctx)
	key := "2024/06/10/st100_20240610.txt"

	require.NoError(t, store.Put(ctx, staging.Object{Key: key, Body: []byte("first")}))
	require.NoError(t, store.Put(ctx, staging.Object{Key: key, Body: []byte("second, longer payload")}))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second, longer payload"), got)

	require.NoError(t, store.Delete(ctx, key))
}

func TestS3StoreDeleteMissingIsNoError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store := setupS3Store(t, ctx)

	assert.NoError(t, store.Delete(ctx, "2024/01/01/st1_20240101.txt"))
}
