package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	items   []Item
	lastMax int
	err     error
}

func (r *recordingRepo) Append(ctx context.Context, item Item, max int) error {
	if r.err != nil {
		return r.err
	}
	r.lastMax = max
	r.items = append([]Item{item}, r.items...)
	if len(r.items) > max {
		r.items = r.items[:max]
	}
	return nil
}

func (r *recordingRepo) List(ctx context.Context, max int) ([]Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastMax = max
	return r.items, nil
}

func TestAppend_SetsTimestampAndCap(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(repo)

	before := time.Now().UTC()
	require.NoError(t, svc.Append(context.Background(), "質問", "回答"))

	require.Len(t, repo.items, 1)
	assert.Equal(t, "質問", repo.items[0].Query)
	assert.Equal(t, "回答", repo.items[0].Response)
	assert.False(t, repo.items[0].Timestamp.Before(before))
	assert.Equal(t, MaxItems, repo.lastMax)
}

func TestAppend_WrapsRepositoryError(t *testing.T) {
	repoErr := errors.New("db down")
	svc := NewService(&recordingRepo{err: repoErr})

	err := svc.Append(context.Background(), "q", "r")
	assert.ErrorIs(t, err, repoErr)
}

func TestList_PassesCap(t *testing.T) {
	repo := &recordingRepo{items: []Item{{Query: "q"}}}
	svc := NewService(repo)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, MaxItems, repo.lastMax)
}
