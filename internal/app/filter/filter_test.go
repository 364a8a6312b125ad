package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/sdbox/internal/domain/track"
	"github.com/osa030/sdbox/internal/infra/config"
)

func TestExtensionFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		extensions   []string
		path         string
		wantAccepted bool
		wantCode     string
	}{
		{
			name:         "mp3 accepted",
			extensions:   []string{".mp3"},
			path:         "/playlist/Song_Artist.mp3",
			wantAccepted: true,
		},
		{
			name:         "uppercase extension accepted",
			extensions:   []string{".mp3"},
			path:         "/playlist/SONG.MP3",
			wantAccepted: true,
		},
		{
			name:         "image rejected",
			extensions:   []string{".mp3"},
			path:         "/playlist/cover.jpg",
			wantAccepted: false,
			wantCode:     "unsupported_extension",
		},
		{
			name:         "extension without dot",
			extensions:   []string{"wav"},
			path:         "/playlist/tone.wav",
			wantAccepted: true,
		},
		{
			name:         "no extensions accepts all",
			extensions:   nil,
			path:         "/playlist/anything.bin",
			wantAccepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExtensionFilter(tt.extensions...)
			result := f.Check(context.Background(), track.New(tt.path, 100))

			assert.Equal(t, tt.wantAccepted, result.Accepted,
				"ExtensionFilter.Check() accepted status mismatch")
			if !tt.wantAccepted {
				assert.Equal(t, tt.wantCode, result.Code,
					"ExtensionFilter.Check() rejection code mismatch")
			}
		})
	}
}

func TestExtensionFilter_ValidateConfig(t *testing.T) {
	f := &ExtensionFilter{}

	require.NoError(t, f.ValidateConfig(nil))
	assert.True(t, f.Check(context.Background(), track.New("a.mp3", 1)).Accepted)
	assert.False(t, f.Check(context.Background(), track.New("a.wav", 1)).Accepted)

	require.NoError(t, f.ValidateConfig(map[string]any{"extensions": []any{".wav", "FLAC"}}))
	assert.True(t, f.Check(context.Background(), track.New("a.wav", 1)).Accepted)
	assert.True(t, f.Check(context.Background(), track.New("a.flac", 1)).Accepted)
	assert.False(t, f.Check(context.Background(), track.New("a.mp3", 1)).Accepted)

	assert.Error(t, f.ValidateConfig(map[string]any{"extensions": []any{""}}))
}

func TestHiddenFileFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantAccepted bool
	}{
		{name: "regular file", path: "/playlist/Song.mp3", wantAccepted: true},
		{name: "resource fork", path: "/playlist/._Song.mp3", wantAccepted: false},
		{name: "dotfile", path: "/playlist/.hidden.mp3", wantAccepted: false},
		{name: "office lock file", path: "/playlist/~$Song.mp3", wantAccepted: false},
		{name: "windows metadata", path: "/System Volume Information/x.mp3", wantAccepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &HiddenFileFilter{}
			result := f.Check(context.Background(), track.New(tt.path, 1))

			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "hidden_file", result.Code)
			}
		})
	}
}

func TestChain_Execute(t *testing.T) {
	chain := NewChain()
	chain.Add(&HiddenFileFilter{})
	chain.Add(NewExtensionFilter(".mp3"))

	assert.True(t, chain.Execute(context.Background(), track.New("a.mp3", 1)).Accepted)
	assert.Equal(t, "hidden_file", chain.Execute(context.Background(), track.New("._a.jpg", 1)).Code)
	assert.Equal(t, "unsupported_extension", chain.Execute(context.Background(), track.New("a.jpg", 1)).Code)
	assert.Len(t, chain.Filters(), 2)
}

func TestChain_Apply(t *testing.T) {
	chain := NewChain()
	chain.Add(&HiddenFileFilter{})
	chain.Add(NewExtensionFilter(".mp3"))
	chain.Add(NewDuplicateTrackFilter())

	tracks := []track.Track{
		track.New("/p/A_X.mp3", 1),
		track.New("/p/._A_X.mp3", 1),
		track.New("/p/cover.jpg", 1),
		track.New("/p/B_Y.mp3", 1),
		track.New("/p/A_X.mp3", 1),
	}

	kept, rejected := chain.Apply(context.Background(), tracks)
	require.Len(t, kept, 2)
	assert.Equal(t, "/p/A_X.mp3", kept[0].Path)
	assert.Equal(t, "/p/B_Y.mp3", kept[1].Path)
	assert.Equal(t, map[string]int{
		"hidden_file":           1,
		"unsupported_extension": 1,
		"duplicate_track":       1,
	}, rejected)

	// A second run starts from a clean duplicate state.
	kept, _ = chain.Apply(context.Background(), tracks)
	assert.Len(t, kept, 2)
}

func TestChain_ApplyEnriched(t *testing.T) {
	tracks := []track.Track{
		track.New("/p/._A_X.mp3", 1),
		track.New("/p/notes.txt", 1),
		track.New("/p/A_X.mp3", 1),
		track.New("/p/B_Y.mp3", 1),
	}

	tests := []struct {
		name     string
		filters  []Filter
		wantRead []string
		wantKept []string
	}{
		{
			name:     "tags read before the duplicate check",
			filters:  []Filter{&HiddenFileFilter{}, NewExtensionFilter(".mp3"), NewDuplicateTrackFilter()},
			wantRead: []string{"/p/A_X.mp3", "/p/B_Y.mp3"},
			wantKept: []string{"/p/A_X.mp3"},
		},
		{
			name:     "tags read after every filter accepted",
			filters:  []Filter{&HiddenFileFilter{}, NewExtensionFilter(".mp3")},
			wantRead: []string{"/p/A_X.mp3", "/p/B_Y.mp3"},
			wantKept: []string{"/p/A_X.mp3", "/p/B_Y.mp3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain()
			for _, f := range tt.filters {
				chain.Add(f)
			}

			var read []string
			// Every track carries the same tags, so B duplicates A once read.
			enrich := func(tr track.Track) track.Track {
				read = append(read, tr.Path)
				return tr.WithLabel("Same Song", "Same Artist")
			}

			kept, _ := chain.ApplyEnriched(context.Background(), tracks, enrich)
			assert.Equal(t, tt.wantRead, read)

			paths := make([]string, len(kept))
			for i, k := range kept {
				paths[i] = k.Path
				assert.Equal(t, "Same Song", k.Title)
			}
			assert.Equal(t, tt.wantKept, paths)
		})
	}
}

func TestNewChainFromConfig(t *testing.T) {
	chain, err := NewChainFromConfig(map[string]config.FilterConfig{
		"duplicate_track_filter": {Enabled: true},
		"extension_filter":       {Enabled: true, Settings: map[string]any{"extensions": []any{".mp3", ".wav"}}},
		"hidden_file_filter":     {Enabled: true},
		"duration_limit_filter":  {Enabled: false},
	})
	require.NoError(t, err)

	var names []string
	for _, f := range chain.Filters() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"hidden_file_filter", "extension_filter", "duplicate_track_filter"}, names)
}

func TestNewChainFromConfig_Errors(t *testing.T) {
	_, err := NewChainFromConfig(map[string]config.FilterConfig{
		"no_such_filter": {Enabled: true},
	})
	assert.Error(t, err)

	_, err = NewChainFromConfig(map[string]config.FilterConfig{
		"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_seconds": 600, "max_minutes": 5}},
	})
	assert.Error(t, err)
}

func TestRegisteredNames(t *testing.T) {
	names := RegisteredNames()
	for _, want := range chainOrder {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}
