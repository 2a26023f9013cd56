package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapKey = "nyc_map"

type stubArtifact struct{ id int }

func (*stubArtifact) Kind() render.Kind     { return render.KindMap }
func (*stubArtifact) Spec() ([]byte, error) { return []byte(`{}`), nil }

type countingBuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (b *countingBuilder) build() (render.Artifact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &stubArtifact{id: b.calls}, nil
}

func TestViewCache_BuildsOnce(t *testing.T) {
	c := NewViewCache()
	b := &countingBuilder{}

	first, hit, err := c.GetOrBuild(mapKey, b.build)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrBuild(mapKey, b.build)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Same(t, first, second, "second call should return the cached instance")
	assert.Equal(t, 1, b.calls, "builder should run exactly once")
	assert.Equal(t, 1, c.Len())
}

func TestViewCache_FailedBuildIsNotCached(t *testing.T) {
	c := NewViewCache()
	b := &countingBuilder{err: errors.New("boom")}

	_, _, err := c.GetOrBuild(mapKey, b.build)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	b.err = nil
	a, hit, err := c.GetOrBuild(mapKey, b.build)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, a)
	assert.Equal(t, 2, b.calls)
}

func TestViewCache_KeysAreIndependent(t *testing.T) {
	c := NewViewCache()
	b := &countingBuilder{}

	_, _, _ = c.GetOrBuild("a", b.build)
	_, _, _ = c.GetOrBuild("b", b.build)

	assert.Equal(t, 2, b.calls)
	assert.Equal(t, 2, c.Len())
}

func TestViewCache_ConcurrentCallersBuildOnce(t *testing.T) {
	c := NewViewCache()
	b := &countingBuilder{}

	var wg sync.WaitGroup
	results := make([]render.Artifact, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, _, err := c.GetOrBuild(mapKey, b.build)
			assert.NoError(t, err)
			results[i] = a
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, b.calls)
	for _, a := range results {
		assert.Same(t, results[0], a)
	}
}
