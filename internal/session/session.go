// Package session implements the editing session: the in-memory document,
// its mutation operations, dirty tracking and the debounced autosave that
// drives the persistence gateway. One session owns one document exclusively;
// the gateway's backing store is the only resource shared across sessions.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/store"
)

// State is the session lifecycle state.
type State string

// Session states. Only one of Saving, Generating or Exporting is active at a
// time; mutations remain legal while any of them is in flight.
const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSaving     State = "saving"
	StateGenerating State = "generating"
	StateExporting  State = "exporting"
	StateClosed     State = "closed"
)

// DefaultQuietPeriod is the autosave debounce window: a save fires only
// after this long with no further mutations.
const DefaultQuietPeriod = 2 * time.Second

// autosaveFailureLimit is how many consecutive silent autosave failures are
// tolerated before the session surfaces the error through SaveErr. A
// successful save resets the count.
const autosaveFailureLimit = 3

// ErrClosed indicates an operation on a closed session.
type ErrClosed struct{}

func (e *ErrClosed) Error() string { return "session is closed" }

// ErrNotPersisted indicates an operation that requires a saved document.
type ErrNotPersisted struct{}

func (e *ErrNotPersisted) Error() string { return "resume has not been saved yet" }

// ErrBusy indicates a save/generate/export requested while another exclusive
// operation is in flight.
type ErrBusy struct {
	Current State
}

func (e *ErrBusy) Error() string {
	return fmt.Sprintf("session is busy: %s", e.Current)
}

// Session is the editing state machine. All dependencies are injected: the
// demo backend is just a different Gateway, not a parallel code path.
type Session struct {
	gateway   store.Gateway
	generator ai.Generator
	exporter  render.Exporter
	quiet     time.Duration
	ownerID   string

	mu               sync.Mutex
	state            State
	doc              *resume.Document
	dirty            bool
	mutations        uint64 // bumped on every applied mutation
	timer            *time.Timer
	autosaveFailures int
	saveErr          error
}

// Option configures a Session.
type Option func(*Session)

// WithQuietPeriod overrides the autosave debounce window.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Session) { s.quiet = d }
}

// New creates a session for the owner. Call Load before using it.
func New(ownerID string, gateway store.Gateway, generator ai.Generator, exporter render.Exporter, opts ...Option) *Session {
	s := &Session{
		gateway:   gateway,
		generator: generator,
		exporter:  exporter,
		quiet:     DefaultQuietPeriod,
		ownerID:   ownerID,
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the document, or starts a fresh default one when id is Nil.
// Any fetch failure (not found, network, auth) falls back to a fresh default
// document; the failure is logged, never returned.
func (s *Session) Load(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return &ErrClosed{}
	}

	if id == uuid.Nil {
		s.doc = resume.NewDefault(s.ownerID)
		s.state = StateReady
		return nil
	}

	doc, err := s.gateway.Get(ctx, s.ownerID, id)
	if err != nil {
		log.Printf("[session] load of %s failed, starting fresh document: %v", id, err)
		s.doc = resume.NewDefault(s.ownerID)
		s.state = StateReady
		return nil
	}
	s.doc = doc
	s.state = StateReady
	return nil
}

// Mutate applies an aggregate operation to the in-memory document, marks the
// session dirty and restarts the autosave debounce timer. Legal while a
// save, generation or export is still outstanding.
func (s *Session) Mutate(op func(*resume.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return &ErrClosed{}
	}
	if s.doc == nil {
		return fmt.Errorf("session has no document loaded")
	}

	if err := op(s.doc); err != nil {
		return err
	}
	s.dirty = true
	s.mutations++
	s.resetDebounceLocked()
	return nil
}

// resetDebounceLocked restarts the trailing-edge debounce timer. Callers
// hold s.mu.
func (s *Session) resetDebounceLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.autosave)
}

// autosave fires after the quiet period. Failures stay silent until the
// consecutive-failure limit, then surface through SaveErr so the caller can
// prompt instead of silently losing edits.
func (s *Session) autosave() {
	s.mu.Lock()
	if s.state == StateClosed || !s.dirty {
		s.mu.Unlock()
		return
	}
	if s.state != StateReady {
		// An exclusive operation is in flight; try again after another
		// quiet period.
		s.resetDebounceLocked()
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.Save(context.Background(), true); err != nil {
		log.Printf("[session] autosave failed: %v", err)
	}
}

// Save persists the current document: create on first save, update after.
// Autosave failures are swallowed (up to the consecutive limit); manual
// failures are returned to the caller.
func (s *Session) Save(ctx context.Context, autosave bool) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return &ErrClosed{}
	}
	if s.state != StateReady {
		current := s.state
		s.mu.Unlock()
		return &ErrBusy{Current: current}
	}
	s.state = StateSaving
	snapshot := s.doc.Clone()
	snapshotMutations := s.mutations
	s.mu.Unlock()

	var (
		saved *resume.Document
		err   error
	)
	if snapshot.ID == uuid.Nil {
		saved, err = s.gateway.Create(ctx, s.ownerID, snapshot)
	} else {
		saved, err = s.gateway.Update(ctx, s.ownerID, snapshot.ID, snapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		s.state = StateReady
	}

	if err != nil {
		if autosave {
			s.autosaveFailures++
			if s.autosaveFailures >= autosaveFailureLimit {
				s.saveErr = err
			}
			return nil
		}
		return err
	}

	s.autosaveFailures = 0
	s.saveErr = nil
	// Adopt identity and version from the store, but keep any content the
	// user changed while the save was in flight.
	s.doc.ID = saved.ID
	s.doc.Version = saved.Version
	s.doc.CreatedAt = saved.CreatedAt
	s.doc.UpdatedAt = saved.UpdatedAt
	s.doc.Visibility = saved.Visibility
	s.doc.ShareToken = saved.ShareToken
	if s.mutations != snapshotMutations {
		// New mutations arrived mid-save; leave dirty set so the next
		// debounce persists them.
		return nil
	}
	s.dirty = false
	return nil
}

// GenerateRequest carries the prompt context for section generation.
type GenerateRequest struct {
	SectionID       string
	JobTitle        string
	ExperienceLevel string
	Industry        string
}

// GenerateSection fills a section with AI-generated content. The target
// section id is captured now; if the section is gone by the time the
// generator resolves, the result is discarded rather than applied to stale
// state. Generation never fails from the caller's point of view: the
// generator degrades to deterministic fallback content internally.
func (s *Session) GenerateSection(ctx context.Context, req GenerateRequest) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return &ErrClosed{}
	}
	if s.state != StateReady {
		current := s.state
		s.mu.Unlock()
		return &ErrBusy{Current: current}
	}
	sec, err := s.doc.Section(req.SectionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sectionType := sec.Type
	jobTitle := req.JobTitle
	if jobTitle == "" {
		jobTitle = s.doc.JobTitle
	}
	if jobTitle == "" {
		jobTitle = "Software Engineer"
	}
	s.state = StateGenerating
	s.mu.Unlock()

	var content resume.SectionContent
	switch sectionType {
	case resume.SectionSummary:
		text := s.generator.GenerateSummary(ctx, ai.SummaryRequest{
			JobTitle:        jobTitle,
			ExperienceLevel: req.ExperienceLevel,
			Industry:        req.Industry,
		})
		content = &resume.SummaryContent{Text: text}
	case resume.SectionSkills:
		skills := s.generator.GenerateSkills(ctx, ai.SkillsRequest{
			JobTitle:        jobTitle,
			Industry:        req.Industry,
			ExperienceLevel: req.ExperienceLevel,
		})
		content = &resume.SkillsContent{Skills: skills}
	case resume.SectionExperience:
		bullets := s.generator.GenerateExperienceBullets(ctx, ai.ExperienceRequest{
			JobTitle: jobTitle,
		})
		content = &resume.ExperienceContent{Experiences: []resume.Experience{{
			Company:     "Company Name",
			Position:    jobTitle,
			StartDate:   time.Now().UTC().Format("2006-01"),
			Description: bullets,
		}}}
	default:
		s.mu.Lock()
		if s.state == StateGenerating {
			s.state = StateReady
		}
		s.mu.Unlock()
		return fmt.Errorf("section type %s does not support generation", sectionType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateGenerating {
		s.state = StateReady
	}
	if s.state == StateClosed {
		return &ErrClosed{}
	}
	if _, err := s.doc.Section(req.SectionID); err != nil {
		// Section removed while generating; drop the result.
		log.Printf("[session] discarding generated content, section %s no longer exists", req.SectionID)
		return nil
	}
	if err := s.doc.ReplaceContent(req.SectionID, content); err != nil {
		return err
	}
	s.doc.MarkSectionAIGenerated(req.SectionID)
	s.dirty = true
	s.mutations++
	s.resetDebounceLocked()
	return nil
}

// ExportPDF renders the current in-memory snapshot, whether or not it has
// been persisted, and returns the artifact bytes.
func (s *Session) ExportPDF(ctx context.Context, opts render.PageOptions) ([]byte, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, &ErrClosed{}
	}
	if s.state != StateReady {
		current := s.state
		s.mu.Unlock()
		return nil, &ErrBusy{Current: current}
	}
	s.state = StateExporting
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	pdf, err := s.exporter.ExportPDF(ctx, snapshot, opts)

	s.mu.Lock()
	if s.state == StateExporting {
		s.state = StateReady
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Share publishes the document and returns its share token. The document
// must have been saved; unsaved edits are persisted first.
func (s *Session) Share(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return "", &ErrClosed{}
	}
	needsSave := s.dirty || s.doc.ID == uuid.Nil
	s.mu.Unlock()

	if needsSave {
		if err := s.Save(ctx, false); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	id := s.doc.ID
	s.mu.Unlock()
	if id == uuid.Nil {
		return "", &ErrNotPersisted{}
	}

	updated, err := s.gateway.SetVisibility(ctx, s.ownerID, id, resume.VisibilityPublic)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.doc.Visibility = updated.Visibility
	s.doc.ShareToken = updated.ShareToken
	s.doc.Version = updated.Version
	s.doc.UpdatedAt = updated.UpdatedAt
	s.mu.Unlock()
	return updated.ShareToken, nil
}

// Close stops the debounce timer and ends the session. Pending unsaved
// changes are not flushed; callers save explicitly before closing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateClosed
}

// Document returns a copy of the in-memory document.
func (s *Session) Document() *resume.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Clone()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dirty reports whether unsaved mutations exist.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SaveErr returns the surfaced save error after repeated autosave failures,
// or nil. A successful save clears it.
func (s *Session) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}
