package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/spanwall/internal/compositor"
	"github.com/genricoloni/spanwall/internal/domain"
	"github.com/genricoloni/spanwall/internal/domain/mocks"
	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/genricoloni/spanwall/internal/resize"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// mockConfig is a simple mock implementation of domain.Config for testing
type mockConfig struct {
	output    string
	overwrite bool
	apply     bool
}

func (m *mockConfig) GetMode() resize.Mode           { return resize.Stretch }
func (m *mockConfig) GetOutputPath() string          { return m.output }
func (m *mockConfig) GetFilter() string              { return "lanczos" }
func (m *mockConfig) GetQuality() int                { return 100 }
func (m *mockConfig) GetWorkers() int                { return 2 }
func (m *mockConfig) ShouldOverwrite() bool          { return m.overwrite }
func (m *mockConfig) ShouldApply() bool              { return m.apply }
func (m *mockConfig) GetFetchTimeout() time.Duration { return time.Second }
func (m *mockConfig) GetMaxFetchBytes() int64        { return 1 << 20 }

var twoDisplays = []geometry.Display{
	{Name: "eDP-1", Bounds: geometry.Rect(-200, -768, 1366, 768)},
	{Name: "HDMI-1", Bounds: geometry.Rect(0, 0, 1920, 1080)},
}

type harness struct {
	engine   *Engine
	displays *mocks.MockDisplayEnumerator
	loader   *mocks.MockImageLoader
	writer   *mocks.MockImageWriter
	executor *mocks.MockExecutor
	prompter *mocks.MockPrompter
	out      *bytes.Buffer
	existing map[string]bool
}

func newHarness(t *testing.T, cfg *mockConfig) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		displays: mocks.NewMockDisplayEnumerator(ctrl),
		loader:   mocks.NewMockImageLoader(ctrl),
		writer:   mocks.NewMockImageWriter(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		prompter: mocks.NewMockPrompter(ctrl),
		out:      new(bytes.Buffer),
		existing: map[string]bool{},
	}

	comp, err := compositor.NewCompositor(zap.NewNop(), h.loader, cfg)
	if err != nil {
		t.Fatalf("failed to build compositor: %v", err)
	}

	h.engine = NewEngine(zap.NewNop(), cfg, h.displays, comp, h.writer, h.executor, h.prompter)
	h.engine.out = h.out
	h.engine.exists = func(path string) bool { return h.existing[path] }
	return h
}

func TestEngine_Run_WritesComposedCanvas(t *testing.T) {
	h := newHarness(t, &mockConfig{output: "wallpaper.jpg"})

	h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)

	var written image.Image
	h.writer.EXPECT().Write(gomock.Any(), "wallpaper.jpg", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, img image.Image) error {
			written = img
			return nil
		})

	err := h.engine.Run(context.Background(), Request{Tokens: []string{"#f00", ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written == nil {
		t.Fatal("expected a canvas to be written")
	}
	if got := written.Bounds(); got != image.Rect(0, 0, 2120, 1848) {
		t.Errorf("expected 2120x1848 canvas, got %v", got)
	}
	// Laptop moved to (0,0) after normalization, external display to (200,768)
	if r, _, _, _ := written.At(10, 10).RGBA(); r>>8 != 255 {
		t.Errorf("expected laptop area to be red")
	}
	if r, g, b, _ := written.At(1000, 1500).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected skipped display to stay black")
	}
	if !strings.HasSuffix(h.out.String(), "Done!\n") {
		t.Errorf("expected Done!, got %q", h.out.String())
	}
}

func TestEngine_Run_ShowDisplaysOnly(t *testing.T) {
	h := newHarness(t, &mockConfig{output: "wallpaper.jpg"})
	h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)

	if err := h.engine.Run(context.Background(), Request{ShowDisplays: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "Detected displays (2 total):\n1. eDP-1 (1366x768)\n2. HDMI-1 (1920x1080)\n"
	if h.out.String() != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, h.out.String())
	}
}

func TestEngine_Run_CountMismatch(t *testing.T) {
	tests := []struct {
		name         string
		tokens       []string
		showDisplays bool
		expectedMsg  string
		listings     int
	}{
		{
			name:        "Too Few",
			tokens:      []string{"#fff"},
			expectedMsg: "Detected 2 displays but you provided 1 image,",
			listings:    1,
		},
		{
			name:        "Too Many",
			tokens:      []string{"#fff", "#000", ""},
			expectedMsg: "Detected 2 displays but you provided 3 images,",
			listings:    1,
		},
		{
			name:         "Listing Not Repeated",
			tokens:       []string{"#fff"},
			showDisplays: true,
			expectedMsg:  "Detected 2 displays but you provided 1 image,",
			listings:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &mockConfig{output: "wallpaper.jpg"})
			h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)

			err := h.engine.Run(context.Background(), Request{Tokens: tt.tokens, ShowDisplays: tt.showDisplays})
			if !errors.Is(err, domain.ErrArgumentCountMismatch) {
				t.Fatalf("expected ErrArgumentCountMismatch, got %v", err)
			}
			if !IsUsageError(err) {
				t.Error("expected a usage error")
			}
			if !strings.Contains(h.out.String(), tt.expectedMsg) {
				t.Errorf("expected %q in output, got %q", tt.expectedMsg, h.out.String())
			}
			if n := strings.Count(h.out.String(), "Detected displays"); n != tt.listings {
				t.Errorf("expected %d display listings, got %d", tt.listings, n)
			}
		})
	}
}

func TestEngine_Run_FatalErrors(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		setup     func(h *harness)
		checkFunc func(t *testing.T, err error)
	}{
		{
			name:   "Bad Token",
			tokens: []string{"/definitely/not/here.png", "#fff"},
			setup:  func(h *harness) {},
			checkFunc: func(t *testing.T, err error) {
				var parseErr *domain.SourceParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected SourceParseError, got %v", err)
				}
			},
		},
		{
			name:   "Enumeration Fails",
			tokens: []string{"#fff", "#000"},
			setup: func(h *harness) {
				h.displays.EXPECT().Enumerate(gomock.Any()).Return(nil, errors.New("no X server"))
			},
			checkFunc: func(t *testing.T, err error) {
				var cfgErr *domain.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected ConfigurationError, got %v", err)
				}
			},
		},
		{
			name:   "No Displays",
			tokens: []string{"#fff"},
			setup: func(h *harness) {
				h.displays.EXPECT().Enumerate(gomock.Any()).Return(nil, nil)
			},
			checkFunc: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrNoDisplays) {
					t.Errorf("expected ErrNoDisplays, got %v", err)
				}
			},
		},
		{
			name:   "Write Fails",
			tokens: []string{"#fff", "#000"},
			setup: func(h *harness) {
				h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)
				h.writer.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			checkFunc: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "unable to save wallpaper: disk full") {
					t.Errorf("expected save error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &mockConfig{output: "wallpaper.jpg"})
			tt.setup(h)

			err := h.engine.Run(context.Background(), Request{Tokens: tt.tokens})
			tt.checkFunc(t, err)
			if strings.Contains(h.out.String(), "Done!") {
				t.Error("failed run must not report Done!")
			}
		})
	}
}

func TestEngine_Run_SlotFailureStillWrites(t *testing.T) {
	h := newHarness(t, &mockConfig{output: "wallpaper.jpg"})

	// A real file is needed for the token to parse as an image
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not really a png"), 0644); err != nil {
		t.Fatal(err)
	}

	h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)
	h.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, errors.New("corrupt"))
	h.writer.EXPECT().Write(gomock.Any(), "wallpaper.jpg", gomock.Any()).Return(nil)

	if err := h.engine.Run(context.Background(), Request{Tokens: []string{path, "#00f"}}); err != nil {
		t.Fatalf("slot failures must not fail the run: %v", err)
	}
	if !strings.Contains(h.out.String(), "unable to decode image") {
		t.Errorf("expected the slot failure to be reported, got %q", h.out.String())
	}
	if !strings.Contains(h.out.String(), "Done!") {
		t.Error("expected Done!")
	}
}

const testHome = "/home/spanwall"

func TestEngine_Run_OverwritePrompt(t *testing.T) {
	tests := []struct {
		name          string
		overwrite     bool
		existing      []string
		setup         func(p *mocks.MockPrompter)
		expectedPath  string
		expectedError string
	}{
		{
			name:         "Free Name",
			expectedPath: "wallpaper.jpg",
			setup:        func(p *mocks.MockPrompter) {},
		},
		{
			name:         "Forced",
			overwrite:    true,
			existing:     []string{"wallpaper.jpg"},
			expectedPath: "wallpaper.jpg",
			setup:        func(p *mocks.MockPrompter) {},
		},
		{
			name:         "Confirmed",
			existing:     []string{"wallpaper.jpg"},
			expectedPath: "wallpaper.jpg",
			setup: func(p *mocks.MockPrompter) {
				p.EXPECT().Confirm("Output file 'wallpaper.jpg' already exists. Overwrite?").Return(true, nil)
			},
		},
		{
			name:         "Renamed Until Free",
			existing:     []string{"wallpaper.jpg", "second.jpg"},
			expectedPath: "third.png",
			setup: func(p *mocks.MockPrompter) {
				gomock.InOrder(
					p.EXPECT().Confirm(gomock.Any()).Return(false, nil),
					p.EXPECT().Ask(gomock.Any()).Return("second", nil),
					p.EXPECT().Confirm("Output file 'second.jpg' already exists. Overwrite?").Return(false, nil),
					p.EXPECT().Ask(gomock.Any()).Return("third.png", nil),
				)
			},
		},
		{
			name:         "Renamed Into Home",
			existing:     []string{"wallpaper.jpg"},
			expectedPath: filepath.Join(testHome, "walls", "third.jpg"),
			setup: func(p *mocks.MockPrompter) {
				gomock.InOrder(
					p.EXPECT().Confirm(gomock.Any()).Return(false, nil),
					p.EXPECT().Ask(gomock.Any()).Return("~/walls/third", nil),
				)
			},
		},
		{
			name:         "Renamed With Variable",
			existing:     []string{"wallpaper.jpg", filepath.Join(testHome, "second.jpg")},
			expectedPath: filepath.Join(testHome, "fourth.png"),
			setup: func(p *mocks.MockPrompter) {
				gomock.InOrder(
					p.EXPECT().Confirm(gomock.Any()).Return(false, nil),
					p.EXPECT().Ask(gomock.Any()).Return("$HOME/second", nil),
					p.EXPECT().Confirm(fmt.Sprintf("Output file '%s' already exists. Overwrite?", filepath.Join(testHome, "second.jpg"))).Return(false, nil),
					p.EXPECT().Ask(gomock.Any()).Return("${HOME}/fourth.png", nil),
				)
			},
		},
		{
			name:          "Not Interactive",
			existing:      []string{"wallpaper.jpg"},
			expectedError: "use --force to overwrite",
			setup: func(p *mocks.MockPrompter) {
				p.EXPECT().Confirm(gomock.Any()).Return(false, errors.New("stdin is not an interactive terminal"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", testHome)
			h := newHarness(t, &mockConfig{output: "wallpaper.jpg", overwrite: tt.overwrite})
			for _, p := range tt.existing {
				h.existing[p] = true
			}
			tt.setup(h.prompter)

			h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)
			if tt.expectedError == "" {
				h.writer.EXPECT().Write(gomock.Any(), tt.expectedPath, gomock.Any()).Return(nil)
			}

			err := h.engine.Run(context.Background(), Request{Tokens: []string{"#fff", "#000"}})
			if tt.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
					t.Fatalf("expected error containing '%s', got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEngine_Run_Apply(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHarness(t, &mockConfig{output: "wallpaper.jpg", apply: true})
		h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)
		h.writer.EXPECT().Write(gomock.Any(), "wallpaper.jpg", gomock.Any()).Return(nil)
		gomock.InOrder(
			h.executor.EXPECT().GetCurrentWallpaper(gomock.Any()).Return("/old.jpg", nil),
			h.executor.EXPECT().SetWallpaper(gomock.Any(), "wallpaper.jpg").Return(nil),
		)

		if err := h.engine.Run(context.Background(), Request{Tokens: []string{"#fff", "#000"}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Failure After Write", func(t *testing.T) {
		h := newHarness(t, &mockConfig{output: "wallpaper.jpg", apply: true})
		h.displays.EXPECT().Enumerate(gomock.Any()).Return(twoDisplays, nil)
		h.writer.EXPECT().Write(gomock.Any(), "wallpaper.jpg", gomock.Any()).Return(nil)
		h.executor.EXPECT().GetCurrentWallpaper(gomock.Any()).Return("", errors.New("unsupported"))
		h.executor.EXPECT().SetWallpaper(gomock.Any(), "wallpaper.jpg").Return(errors.New("no setter"))

		err := h.engine.Run(context.Background(), Request{Tokens: []string{"#fff", "#000"}})
		if err == nil || !strings.Contains(err.Error(), "wallpaper saved to wallpaper.jpg but could not be applied") {
			t.Fatalf("expected apply error, got %v", err)
		}
	})
}

