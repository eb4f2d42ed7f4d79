package fetcher

import (
	"time"

	"github.com/genricoloni/spanwall/internal/resize"
)

// mockConfig is a simple mock implementation of domain.Config for testing
type mockConfig struct {
	maxBytes int64
}

func (m *mockConfig) GetMode() resize.Mode           { return resize.Stretch }
func (m *mockConfig) GetOutputPath() string          { return "wallpaper.jpg" }
func (m *mockConfig) GetFilter() string              { return "lanczos" }
func (m *mockConfig) GetQuality() int                { return 100 }
func (m *mockConfig) GetWorkers() int                { return 1 }
func (m *mockConfig) ShouldOverwrite() bool          { return false }
func (m *mockConfig) ShouldApply() bool              { return false }
func (m *mockConfig) GetFetchTimeout() time.Duration { return 2 * time.Second }
func (m *mockConfig) GetMaxFetchBytes() int64        { return m.maxBytes }
