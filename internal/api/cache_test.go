package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocontent/internal/testsupport"
)

func TestListAndClearCache(t *testing.T) {
	rt, cfg := newRuntime(t)
	ctx := context.Background()
	store := testsupport.MustOpenCache(t, cfg)
	require.NoError(t, store.Put(ctx, "aaaaaaaaaaa", "en", testsupport.Records()))
	require.NoError(t, store.Put(ctx, "bbbbbbbbbbb", "en", testsupport.Records()[:1]))
	require.NoError(t, store.Close())

	entries, err := ListCache(ctx, rt)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	removed, err := ClearCache(ctx, rt, "aaaaaaaaaaa")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	entries, err = ListCache(ctx, rt)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bbbbbbbbbbb", entries[0].VideoID)
	assert.Equal(t, 1, entries[0].Records)

	removed, err = ClearCache(ctx, rt, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestCollectStatus(t *testing.T) {
	rt, _ := newRuntime(t, testsupport.WithStubbedBinaries(), testsupport.WithLLMKey(""))

	report, err := CollectStatus(context.Background(), rt)
	require.NoError(t, err)
	require.Len(t, report.Dependencies, 4)
	for _, dep := range report.Dependencies {
		if dep.Name == "youtube-dl" {
			assert.True(t, dep.Optional)
			continue
		}
		assert.True(t, dep.Available, dep.Name)
	}
	assert.True(t, report.Healthy(), "%+v", report)
}
