// Package term implements ports.Surface on an ANSI terminal.
//
// The overlay's pixel space is mapped onto a character cell grid: discs
// become colored bullets, cluster labels become their member count. It exists
// for `planpin view` and for smoke-testing a deployment without a graphical
// host. Pointer events are injected programmatically (terminal mouse tracking
// is not worth the portability cost here).
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/galhadida80/planpin/pkg/domain"
)

// Surface draws overlay primitives into a terminal cell grid.
type Surface struct {
	mu       sync.Mutex
	out      io.Writer
	profile  termenv.Profile
	cols     int
	rows     int
	viewport domain.Viewport

	discs  map[domain.ObjectID]domain.Disc
	labels map[domain.ObjectID]domain.Label

	pointer   chan domain.PointerEvent
	viewports chan domain.Viewport
}

// Option configures a Surface.
type Option func(*Surface)

// WithSize fixes the cell grid size instead of detecting the terminal's.
func WithSize(cols, rows int) Option {
	return func(s *Surface) {
		s.cols = cols
		s.rows = rows
	}
}

// WithProfile overrides the detected color profile (tests use termenv.TrueColor).
func WithProfile(p termenv.Profile) Option {
	return func(s *Surface) {
		s.profile = p
	}
}

// New creates a terminal surface writing to out. The viewport's surface
// dimensions define the overlay's pixel space; the grid only affects how
// coarsely it is drawn.
func New(out io.Writer, viewport domain.Viewport, opts ...Option) *Surface {
	s := &Surface{
		out:       out,
		profile:   termenv.ColorProfile(),
		viewport:  viewport,
		discs:     make(map[domain.ObjectID]domain.Disc),
		labels:    make(map[domain.ObjectID]domain.Label),
		pointer:   make(chan domain.PointerEvent, 16),
		viewports: make(chan domain.Viewport, 16),
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 2 {
		s.cols, s.rows = w, h-2
	} else {
		s.cols, s.rows = 80, 24
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Surface) AddDisc(disc domain.Disc) (domain.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ObjectID(uuid.NewString())
	s.discs[id] = disc
	return id, nil
}

func (s *Surface) AddLabel(label domain.Label) (domain.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ObjectID(uuid.NewString())
	s.labels[id] = label
	return id, nil
}

func (s *Surface) Remove(id domain.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.discs, id)
	delete(s.labels, id)
	return nil
}

// Batch runs fn, then repaints the whole grid in one write.
func (s *Surface) Batch(fn func() error) error {
	if err := fn(); err != nil {
		s.repaint()
		return err
	}
	return s.repaint()
}

func (s *Surface) PointerDown() <-chan domain.PointerEvent {
	return s.pointer
}

func (s *Surface) ViewportChanges() <-chan domain.Viewport {
	return s.viewports
}

// SetZoom updates the zoom scalar and emits a viewport change.
func (s *Surface) SetZoom(zoom float64) {
	s.mu.Lock()
	s.viewport.Zoom = zoom
	v := s.viewport
	s.mu.Unlock()
	s.viewports <- v
}

// Press injects a primary pointer-down at the given surface pixel.
func (s *Surface) Press(x, y float64) {
	s.pointer <- domain.PointerEvent{X: x, Y: y}
}

// repaint renders every live object into the cell grid and writes it out.
func (s *Surface) repaint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type cell struct {
		ch    rune
		color string
	}
	grid := make([][]cell, s.rows)
	for i := range grid {
		grid[i] = make([]cell, s.cols)
		for j := range grid[i] {
			grid[i][j] = cell{ch: ' '}
		}
	}

	plot := func(x, y float64, ch rune, color string) {
		if s.viewport.SurfaceWidthPx <= 0 || s.viewport.SurfaceHeightPx <= 0 {
			return
		}
		col := int(x / s.viewport.SurfaceWidthPx * float64(s.cols))
		row := int(y / s.viewport.SurfaceHeightPx * float64(s.rows))
		if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
			return
		}
		grid[row][col] = cell{ch: ch, color: color}
	}

	for _, d := range s.discs {
		plot(d.CenterX, d.CenterY, '●', d.Color)
	}
	// Labels paint over their disc cell; a count beats a bullet.
	for _, l := range s.labels {
		ch := '?'
		if l.Text != "" {
			ch = rune(l.Text[0])
			if len(l.Text) > 1 {
				ch = '+'
			}
		}
		plot(l.CenterX, l.CenterY, ch, l.Color)
	}

	var b strings.Builder
	for _, row := range grid {
		for _, c := range row {
			if c.ch == ' ' {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(termenv.String(string(c.ch)).Foreground(s.profile.Color(c.color)).String())
		}
		b.WriteByte('\n')
	}

	if _, err := fmt.Fprint(s.out, b.String()); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}
