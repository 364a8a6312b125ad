package playlist

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/sdbox/internal/domain/track"
)

func makeTracks(n int) []track.Track {
	tracks := make([]track.Track, n)
	for i := range tracks {
		tracks[i] = track.New(fmt.Sprintf("/playlist/Song%d_Artist.mp3", i), int64(1000*(i+1)))
	}
	return tracks
}

func TestPlaylist_New(t *testing.T) {
	p := New()

	assert.Equal(t, 0, p.Count())
	assert.True(t, p.IsEmpty())
	assert.Equal(t, NoSelection, p.Index())

	_, ok := p.Current()
	assert.False(t, ok)
}

func TestPlaylist_Load(t *testing.T) {
	tests := []struct {
		name       string
		tracks     []track.Track
		maxCount   int
		wantCount  int
		wantIndex  int
		wantCapErr bool
	}{
		{
			name:      "empty",
			tracks:    nil,
			maxCount:  20,
			wantCount: 0,
			wantIndex: NoSelection,
		},
		{
			name:      "within capacity",
			tracks:    makeTracks(3),
			maxCount:  20,
			wantCount: 3,
			wantIndex: 0,
		},
		{
			name:      "exactly at capacity",
			tracks:    makeTracks(5),
			maxCount:  5,
			wantCount: 5,
			wantIndex: 0,
		},
		{
			name:       "truncated",
			tracks:     makeTracks(25),
			maxCount:   20,
			wantCount:  20,
			wantIndex:  0,
			wantCapErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			err := p.Load(tt.tracks, tt.maxCount)

			if tt.wantCapErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrCapacityExceeded))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, p.Count())
			assert.Equal(t, tt.wantIndex, p.Index())
		})
	}
}

func TestPlaylist_Load_KeepsOrder(t *testing.T) {
	tracks := makeTracks(25)
	p := New()
	_ = p.Load(tracks, 20)

	loaded := p.Tracks()
	for i := range loaded {
		assert.Equal(t, tracks[i].Path, loaded[i].Path)
	}
}

func TestPlaylist_Load_CopiesInput(t *testing.T) {
	tracks := makeTracks(2)
	p := New()
	require.NoError(t, p.Load(tracks, 20))

	tracks[0].Title = "changed"
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "Song0", cur.Title)
}

func TestPlaylist_Advance_CycleClosure(t *testing.T) {
	for _, count := range []int{1, 2, 3, 7, 20} {
		for _, dir := range []Direction{Next, Prev} {
			t.Run(fmt.Sprintf("%s_%d", dir, count), func(t *testing.T) {
				p := New()
				require.NoError(t, p.Load(makeTracks(count), 20))
				start := p.Index()

				for i := 0; i < count; i++ {
					_, err := p.Advance(dir)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, p.Index(), 0)
					assert.Less(t, p.Index(), count)
				}
				assert.Equal(t, start, p.Index())
			})
		}
	}
}

func TestPlaylist_Advance_SingleTrack(t *testing.T) {
	p := New()
	require.NoError(t, p.Load(makeTracks(1), 20))

	next, err := p.Advance(Next)
	require.NoError(t, err)
	prev, err := p.Advance(Prev)
	require.NoError(t, err)

	assert.Equal(t, next, prev)
	assert.Equal(t, 0, p.Index())
}

func TestPlaylist_Advance_Empty(t *testing.T) {
	p := New()
	require.NoError(t, p.Load(nil, 20))

	for _, dir := range []Direction{Next, Prev} {
		assert.NotPanics(t, func() {
			_, err := p.Advance(dir)
			assert.ErrorIs(t, err, ErrEmptyPlaylist)
		})
	}

	_, ok := p.Current()
	assert.False(t, ok)
	assert.Equal(t, NoSelection, p.Index())
}

func TestPlaylist_Advance_Wraparound(t *testing.T) {
	p := New()
	require.NoError(t, p.Load(makeTracks(3), 20))

	_, _ = p.Advance(Next)
	_, _ = p.Advance(Next)
	assert.Equal(t, 2, p.Index())

	trk, err := p.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, "Song0", trk.Title)

	trk, err = p.Advance(Prev)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Index())
	assert.Equal(t, "Song2", trk.Title)
}

func TestPlaylist_TotalSize(t *testing.T) {
	p := New()
	require.NoError(t, p.Load(makeTracks(3), 20))

	assert.Equal(t, int64(6000), p.TotalSize())
}
