package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/analysis"
	"github.com/jonathan/career-compass/internal/intake"
	"github.com/jonathan/career-compass/internal/upload"
)

// analysisTimeout bounds one background analysis run.
const analysisTimeout = 2 * time.Minute

// logNotifier surfaces terminal upload transitions in the server log. The
// session guarantees at most one notification per file.
type logNotifier struct{}

func (logNotifier) FileCompleted(f upload.File) {
	log.Printf("[uploads] %s uploaded successfully", f.Name)
}

func (logNotifier) FileFailed(f upload.File) {
	log.Printf("[uploads] %s failed: %s", f.Name, f.Error)
}

// Uploads tracks one upload session per user and hands completed files to
// the analysis pipeline. File content is held in memory from accept until
// the completion callback consumes it.
type Uploads struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*upload.Session
	content  map[uuid.UUID][]byte

	timing   upload.Config
	analysis *analysis.Service
}

// NewUploads creates the upload tracker. The timing config applies to every
// session; Notifier and OnCompleted are owned by the tracker.
func NewUploads(timing upload.Config, svc *analysis.Service) *Uploads {
	return &Uploads{
		sessions: make(map[uuid.UUID]*upload.Session),
		content:  make(map[uuid.UUID][]byte),
		timing:   timing,
		analysis: svc,
	}
}

// SessionFor returns the user's session, creating it on first use.
func (u *Uploads) SessionFor(userID uuid.UUID) *upload.Session {
	u.mu.Lock()
	defer u.mu.Unlock()

	if s, ok := u.sessions[userID]; ok {
		return s
	}

	cfg := u.timing
	cfg.Notifier = logNotifier{}
	cfg.OnCompleted = func(f upload.File) {
		u.onCompleted(userID, f)
	}
	s := upload.NewSession(cfg)
	u.sessions[userID] = s
	return s
}

// Add validates nothing; intake already accepted the file. It registers the
// content for the later analysis run and enters the file into the machine.
func (u *Uploads) Add(ctx context.Context, userID uuid.UUID, info intake.FileInfo, content []byte) upload.File {
	session := u.SessionFor(userID)
	f := session.Add(ctx, info)

	u.mu.Lock()
	u.content[f.ID] = content
	u.mu.Unlock()

	return f
}

// Dismiss removes a terminal file and drops any content still held for it.
func (u *Uploads) Dismiss(userID, fileID uuid.UUID) error {
	if err := u.SessionFor(userID).Dismiss(fileID); err != nil {
		return err
	}
	u.mu.Lock()
	delete(u.content, fileID)
	u.mu.Unlock()
	return nil
}

// onCompleted runs on the file's progression goroutine; the analysis itself
// is dispatched to its own goroutine so slow model calls never block the
// state machine.
func (u *Uploads) onCompleted(userID uuid.UUID, f upload.File) {
	u.mu.Lock()
	content := u.content[f.ID]
	delete(u.content, f.ID)
	u.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()

		record, err := u.analysis.Run(ctx, analysis.Request{
			UserID:   userID,
			FileName: f.Name,
			Content:  content,
		})
		if err != nil {
			log.Printf("[uploads] Analysis of %s failed: %v", f.Name, err)
			return
		}
		log.Printf("[uploads] Analysis %s stored for user %s", record.ID, userID)
	}()
}
