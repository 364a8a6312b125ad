package filter

import (
	"context"
	"strings"

	"github.com/osa030/sdbox/internal/domain/track"
)

// HiddenFileFilter skips dotfiles and the metadata files desktop systems leave on cards.
type HiddenFileFilter struct{}

func (f *HiddenFileFilter) Name() string {
	return "hidden_file_filter"
}

func (f *HiddenFileFilter) Description() string {
	return "Skips hidden files such as ._Song.mp3 resource forks"
}

func (f *HiddenFileFilter) ReturnCodes() []string {
	return []string{"hidden_file"}
}

func (f *HiddenFileFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *HiddenFileFilter) Check(ctx context.Context, t track.Track) Result {
	if strings.HasPrefix(t.Name, ".") || strings.HasPrefix(t.Name, "~$") {
		return Reject("hidden_file")
	}
	if strings.Contains(t.Path, "System Volume Information") {
		return Reject("hidden_file")
	}
	return Accept()
}

func init() {
	Register("hidden_file_filter", func() Filter {
		return &HiddenFileFilter{}
	})
}
