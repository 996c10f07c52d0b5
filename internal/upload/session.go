// Package upload tracks résumé files through their upload and processing
// lifecycle. Each accepted file progresses independently through an ordered
// status sequence; progress is simulated the same way the dashboard surfaces
// it: random increments per tick during upload, then an opaque fixed-length
// processing stage.
package upload

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/intake"
)

// Status is the lifecycle state of a tracked file.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further automatic transition occurs.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// File is a snapshot of one tracked file. Files are keyed by ID, not name,
// so two uploads sharing a display name never collide.
type File struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	SizeLabel string    `json:"size_label"`
	Kind      string    `json:"kind"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"` // 0-100, meaningful while uploading
	Error     string    `json:"error,omitempty"`
}

// Notifier receives user-visible notifications for terminal transitions.
type Notifier interface {
	FileCompleted(f File)
	FileFailed(f File)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) FileCompleted(File) {}
func (NopNotifier) FileFailed(File)    {}

// Config holds the timing knobs for the progression. Zero values fall back
// to the reference timings.
type Config struct {
	TickInterval       time.Duration // progress tick during uploading
	HandoffDelay       time.Duration // pause between 100% and processing
	ProcessingDuration time.Duration // opaque processing stage length
	Notifier           Notifier
	OnCompleted        func(f File) // called once after a file completes
	Rand               *rand.Rand   // progress increment source, for tests
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = 500 * time.Millisecond
	}
	if c.HandoffDelay <= 0 {
		c.HandoffDelay = time.Second
	}
	if c.ProcessingDuration <= 0 {
		c.ProcessingDuration = 3 * time.Second
	}
	if c.Notifier == nil {
		c.Notifier = NopNotifier{}
	}
	return c
}

type entry struct {
	file   File
	cancel context.CancelFunc
	done   chan struct{}
}

// Session owns the ordered file list for one user session. All state
// mutations go through the session mutex; each file's progression runs on
// its own goroutine with no cross-file ordering guarantees.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	order   []uuid.UUID
	entries map[uuid.UUID]*entry
	rng     *rand.Rand
}

// NewSession creates an empty session.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		cfg:     cfg,
		entries: make(map[uuid.UUID]*entry),
		rng:     cfg.Rand,
	}
}

// Add inserts an accepted file in uploading status at progress 0 and starts
// its progression. Insertion order is preserved for display. The returned
// snapshot carries the generated file ID.
func (s *Session) Add(ctx context.Context, info intake.FileInfo) File {
	runCtx, cancel := context.WithCancel(ctx)
	f := File{
		ID:        uuid.New(),
		Name:      info.Name,
		Size:      info.Size,
		SizeLabel: info.SizeLabel,
		Kind:      info.Kind,
		Status:    StatusUploading,
		Progress:  0,
	}
	e := &entry{file: f, cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.entries[f.ID] = e
	s.order = append(s.order, f.ID)
	s.mu.Unlock()

	go s.run(runCtx, f.ID)
	return f
}

// run drives one file through uploading -> processing -> completed.
// Cancellation and external failure are honored at every suspension point.
func (s *Session) run(ctx context.Context, id uuid.UUID) {
	defer func() {
		s.mu.Lock()
		if e, ok := s.entries[id]; ok {
			select {
			case <-e.done:
			default:
				close(e.done)
			}
		}
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

uploading:
	for {
		select {
		case <-ctx.Done():
			s.fail(id, "upload canceled")
			return
		case <-ticker.C:
			full, alive := s.advance(id)
			if !alive {
				return
			}
			if full {
				break uploading
			}
		}
	}

	if !s.sleep(ctx, s.cfg.HandoffDelay) {
		s.fail(id, "upload canceled")
		return
	}
	if _, ok := s.transition(id, StatusUploading, StatusProcessing); !ok {
		return
	}

	if !s.sleep(ctx, s.cfg.ProcessingDuration) {
		s.fail(id, "processing canceled")
		return
	}
	snap, ok := s.transition(id, StatusProcessing, StatusCompleted)
	if !ok {
		return
	}

	s.cfg.Notifier.FileCompleted(snap)
	if s.cfg.OnCompleted != nil {
		s.cfg.OnCompleted(snap)
	}
}

// advance bumps progress by a random increment in [0,20) and clamps at 100.
// Returns full=true once progress reaches 100, alive=false when the file is
// gone or no longer uploading.
func (s *Session) advance(id uuid.UUID) (full, alive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.file.Status != StatusUploading {
		return false, false
	}

	var inc float64
	if s.rng != nil {
		inc = s.rng.Float64() * 20
	} else {
		inc = rand.Float64() * 20
	}
	e.file.Progress += inc
	if e.file.Progress >= 100 {
		e.file.Progress = 100
		return true, true
	}
	return false, true
}

// transition flips a file from one status to another, only if it is still in
// the expected state. This is what makes terminal states absorbing: a file
// failed externally can never be resurrected by its own goroutine. Returns a
// snapshot taken under the lock so callers notify on exactly what they set.
func (s *Session) transition(id uuid.UUID, from, to Status) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.file.Status != from {
		return File{}, false
	}
	e.file.Status = to
	return e.file, true
}

// sleep waits for d, returning false if the context is canceled first.
func (s *Session) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// fail marks a non-terminal file as errored and notifies.
func (s *Session) fail(id uuid.UUID, msg string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok || e.file.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	e.file.Status = StatusError
	e.file.Error = msg
	snap := e.file
	s.mu.Unlock()

	s.cfg.Notifier.FileFailed(snap)
}

// Fail moves a file from uploading to error. Used when a real backend
// reports a transfer failure. Files in processing or a terminal state are
// left alone.
func (s *Session) Fail(id uuid.UUID, msg string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return &ErrUnknownFile{ID: id}
	}
	if e.file.Status != StatusUploading {
		s.mu.Unlock()
		return &ErrInvalidTransition{ID: id, From: e.file.Status, To: StatusError}
	}
	e.file.Status = StatusError
	e.file.Error = msg
	snap := e.file
	cancel := e.cancel
	s.mu.Unlock()

	cancel()
	s.cfg.Notifier.FileFailed(snap)
	return nil
}

// Dismiss removes a file from the visible list. Only permitted once the
// file is terminal; mid-flight uploads must be canceled first.
func (s *Session) Dismiss(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return &ErrUnknownFile{ID: id}
	}
	if !e.file.Status.Terminal() {
		return &ErrNotTerminal{ID: id, Status: e.file.Status}
	}

	delete(s.entries, id)
	for i, fid := range s.order {
		if fid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Cancel stops a file's progression. The file ends up in error state via
// its own goroutine's cancellation path.
func (s *Session) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return &ErrUnknownFile{ID: id}
	}
	cancel := e.cancel
	s.mu.Unlock()

	cancel()
	return nil
}

// Get returns a snapshot of one file.
func (s *Session) Get(id uuid.UUID) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return File{}, false
	}
	return e.file, true
}

// Files returns snapshots of all tracked files in insertion order.
func (s *Session) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]File, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.entries[id]; ok {
			out = append(out, e.file)
		}
	}
	return out
}

// Done returns a channel closed when the file's progression goroutine exits.
func (s *Session) Done(id uuid.UUID) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		return e.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Settled reports whether every tracked file is terminal.
func (s *Session) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if !e.file.Status.Terminal() {
			return false
		}
	}
	return true
}
