package filter

import (
	"context"
	"strings"

	"github.com/osa030/sdbox/internal/domain/track"
)

// ExtensionConfig represents the configuration for ExtensionFilter.
type ExtensionConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions" default:"[\".mp3\"]" validate:"min=1,dive,required"`
}

// ExtensionFilter accepts only files with a playable extension.
type ExtensionFilter struct {
	allowed map[string]bool
}

// NewExtensionFilter creates a filter accepting the given extensions.
func NewExtensionFilter(extensions ...string) *ExtensionFilter {
	f := &ExtensionFilter{}
	f.setExtensions(extensions)
	return f
}

func (f *ExtensionFilter) setExtensions(extensions []string) {
	f.allowed = make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.allowed[ext] = true
	}
}

func (f *ExtensionFilter) Name() string {
	return "extension_filter"
}

func (f *ExtensionFilter) Description() string {
	return "Accepts only files whose extension the decoder can play"
}

func (f *ExtensionFilter) ReturnCodes() []string {
	return []string{"unsupported_extension"}
}

func (f *ExtensionFilter) ValidateConfig(settings map[string]any) error {
	var config ExtensionConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.setExtensions(config.Extensions)
	return nil
}

func (f *ExtensionFilter) Check(ctx context.Context, t track.Track) Result {
	if len(f.allowed) == 0 {
		return Accept()
	}
	if !f.allowed[t.Ext()] {
		return Reject("unsupported_extension")
	}
	return Accept()
}

func init() {
	Register("extension_filter", func() Filter {
		return NewExtensionFilter(".mp3")
	})
}
