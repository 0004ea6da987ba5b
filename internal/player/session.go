package player

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/formatech/coursegate/internal/access"
	"github.com/formatech/coursegate/internal/content"
	"github.com/formatech/coursegate/internal/quiz"
	"github.com/formatech/coursegate/internal/storage"
)

// DefaultViewerBase is the public document viewer used to embed slide decks,
// with the deck's direct link passed as a query parameter.
const DefaultViewerBase = "https://view.officeapps.live.com/op/embed.aspx"

// FileFetcher downloads a content file; the player uses it to materialize PDF
// blobs because the hosting origin disallows framing by URL.
type FileFetcher interface {
	FetchFile(ctx context.Context, url string) ([]byte, error)
}

// Session is one viewer's walk through one course. It owns the module cursor,
// the one-active-panel rule, the per-session PDF blob, and the quiz engine.
type Session struct {
	mu sync.Mutex

	ID       string
	assembly content.Assembly

	granted    bool
	showPrompt bool // access-key prompt is showing
	onAccess   []func(bool)

	idx int
	cur *content.Module

	showVideo        bool
	showPDF          bool
	showImage        bool
	showPresentation bool
	videoError       bool

	videoURL        string
	imageURL        string
	presentationURL string
	rawSlidesURL    string
	pdfEmbedURL     string
	rawPDFURL       string

	// blobKey is the single live blob for this session; every replacement
	// revokes it first, and Close revokes it unconditionally.
	blobKey string
	gen     uint64
	closed  bool

	blobs      storage.BlobStore
	files      FileFetcher
	viewerBase string

	Quiz *quiz.Engine
}

func newSession(id string, a content.Assembly, blobs storage.BlobStore, files FileFetcher, viewerBase string) *Session {
	if viewerBase == "" {
		viewerBase = DefaultViewerBase
	}
	return &Session{
		ID:         id,
		assembly:   a,
		blobs:      blobs,
		files:      files,
		viewerBase: viewerBase,
		Quiz:       quiz.NewEngine(),
	}
}

func (s *Session) Assembly() content.Assembly {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assembly
}

func (s *Session) Granted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted
}

// OnAccessChange subscribes to grant/deny transitions, replacing any
// poll-the-flag pattern on the caller's side.
func (s *Session) OnAccessChange(fn func(granted bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAccess = append(s.onAccess, fn)
}

// SetAccess records the gate's verdict (enrollment check or admin bypass).
func (s *Session) SetAccess(granted bool) {
	s.mu.Lock()
	changed := s.granted != granted
	s.granted = granted
	if granted {
		s.showPrompt = false
	}
	subs := append([]func(bool){}, s.onAccess...)
	s.mu.Unlock()
	if changed {
		for _, fn := range subs {
			fn(granted)
		}
	}
}

// GrantKey grants session-scoped access when the supplied key matches the
// course's access key, then loads the first module.
func (s *Session) GrantKey(ctx context.Context, key string) bool {
	s.mu.Lock()
	course := s.assembly.Course
	s.mu.Unlock()
	if !access.MatchKey(course, key) {
		return false
	}
	s.SetAccess(true)
	if len(s.assembly.Modules) > 0 {
		s.LoadModule(ctx, 0)
	}
	return true
}

// LoadModule positions the cursor and activates exactly one media panel by
// the fixed priority video > slide-deck > PDF > image. Without access it
// switches to the key prompt instead; out-of-range indexes are no-ops.
func (s *Session) LoadModule(ctx context.Context, index int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.granted {
		log.Printf("player: session %s: access denied, viewer is not enrolled", s.ID)
		s.showPrompt = true
		s.mu.Unlock()
		return
	}
	if index < 0 || index >= len(s.assembly.Modules) {
		s.mu.Unlock()
		return
	}
	s.idx = index
	s.cur = &s.assembly.Modules[index]
	s.resetPanelsLocked()
	s.gen++
	gen := s.gen

	m := s.cur
	// Raw URLs are kept for every attached kind so toggles can bring up media
	// that lost the priority pick.
	s.rawPDFURL = m.PDFURL
	s.rawSlidesURL = m.SlidesURL
	switch {
	case m.VideoURL != "":
		s.videoURL = m.VideoURL
		s.showVideo = true
	case m.SlidesURL != "":
		s.presentationURL = s.viewerURLLocked(m.SlidesURL)
		s.showPresentation = true
	case m.PDFURL != "":
		s.showPDF = true
		raw := m.PDFURL
		s.mu.Unlock()
		s.materializePDF(ctx, raw, gen)
		return
	case m.ImageURL != "":
		s.imageURL = m.ImageURL
		s.showImage = true
	}
	s.mu.Unlock()
}

// resetPanelsLocked clears every panel, URL and error flag, and revokes the
// previous blob before anything new can be created.
func (s *Session) resetPanelsLocked() {
	s.showVideo = false
	s.showPDF = false
	s.showImage = false
	s.showPresentation = false
	s.videoError = false
	s.videoURL = ""
	s.imageURL = ""
	s.presentationURL = ""
	s.rawSlidesURL = ""
	s.pdfEmbedURL = ""
	s.rawPDFURL = ""
	s.revokeBlobLocked()
}

func (s *Session) viewerURLLocked(raw string) string {
	return s.viewerBase + "?src=" + url.QueryEscape(raw)
}

// materializePDF fetches the PDF and exposes it through the blob store. A
// result arriving after the module changed or the session closed is
// discarded. Fetch or store failure falls back to embedding the direct URL.
func (s *Session) materializePDF(ctx context.Context, raw string, gen uint64) {
	data, err := s.files.FetchFile(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return // stale fetch
	}
	if err != nil {
		log.Printf("player: session %s: pdf blob fetch failed, embedding direct url: %v", s.ID, err)
		s.pdfEmbedURL = raw
		return
	}
	s.revokeBlobLocked()
	key := fmt.Sprintf("sessions/%s/%d.pdf", s.ID, gen)
	if _, err := s.blobs.Put(key, bytes.NewReader(data)); err != nil {
		log.Printf("player: session %s: blob store put failed: %v", s.ID, err)
		s.pdfEmbedURL = raw
		return
	}
	u, err := s.blobs.SignedURL(key)
	if err != nil {
		_ = s.blobs.Delete(key)
		s.pdfEmbedURL = raw
		return
	}
	s.blobKey = key
	s.pdfEmbedURL = u
}

func (s *Session) revokeBlobLocked() {
	if s.blobKey != "" {
		if err := s.blobs.Delete(s.blobKey); err != nil {
			log.Printf("player: session %s: blob revoke failed: %v", s.ID, err)
		}
		s.blobKey = ""
	}
}

// Next and Previous step linearly through the flattened module sequence.
func (s *Session) Next(ctx context.Context) {
	s.mu.Lock()
	if !s.granted || s.idx >= len(s.assembly.Modules)-1 {
		s.mu.Unlock()
		return
	}
	next := s.idx + 1
	s.mu.Unlock()
	s.LoadModule(ctx, next)
}

func (s *Session) Previous(ctx context.Context) {
	s.mu.Lock()
	if !s.granted || s.idx <= 0 {
		s.mu.Unlock()
		return
	}
	prev := s.idx - 1
	s.mu.Unlock()
	s.LoadModule(ctx, prev)
}

// Completed reports position-based completion: every module strictly before
// the cursor counts as complete.
func (s *Session) Completed(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return index >= 0 && index < len(s.assembly.Modules) && index < s.idx
}

func (s *Session) ToggleVideo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.granted {
		return
	}
	s.showVideo = !s.showVideo
	if s.showVideo {
		s.showPDF = false
		s.showImage = false
		s.showPresentation = false
	}
}

func (s *Session) TogglePDF(ctx context.Context) {
	s.mu.Lock()
	if !s.granted {
		s.mu.Unlock()
		return
	}
	s.showPDF = !s.showPDF
	var refetch string
	var gen uint64
	if s.showPDF {
		s.showVideo = false
		s.showImage = false
		s.showPresentation = false
		if s.pdfEmbedURL == "" && s.rawPDFURL != "" {
			refetch = s.rawPDFURL
			gen = s.gen
		}
	}
	s.mu.Unlock()
	if refetch != "" {
		s.materializePDF(ctx, refetch, gen)
	}
}

func (s *Session) ToggleImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.granted {
		return
	}
	s.showImage = !s.showImage
	if s.showImage {
		s.showVideo = false
		s.showPDF = false
		s.showPresentation = false
	}
}

func (s *Session) TogglePresentation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.granted {
		return
	}
	s.showPresentation = !s.showPresentation
	if s.showPresentation {
		s.showVideo = false
		s.showPDF = false
		s.showImage = false
		if s.presentationURL == "" && s.rawSlidesURL != "" {
			s.presentationURL = s.viewerURLLocked(s.rawSlidesURL)
		}
	}
}

// VideoError records a playback failure: the video panel deactivates and the
// flag surfaces to the UI. No retry, no auto-advance.
func (s *Session) VideoError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Printf("player: session %s: video failed to load: %s", s.ID, s.videoURL)
	s.showVideo = false
	s.videoURL = ""
	s.videoError = true
}

// StartQuiz begins the current module's quiz, if it has one. Media panels go
// dark while a quiz runs.
func (s *Session) StartQuiz() {
	s.mu.Lock()
	if !s.granted || s.cur == nil || s.cur.Quiz == nil {
		s.mu.Unlock()
		return
	}
	q := s.cur.Quiz
	s.showVideo = false
	s.showPDF = false
	s.mu.Unlock()
	s.Quiz.Start(q)
}

// Close tears the session down: any in-flight fetch is invalidated, the blob
// is revoked, and a running quiz timer stops. Runs on every teardown path.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	s.revokeBlobLocked()
	s.mu.Unlock()
	s.Quiz.Exit()
}

// State is a snapshot for the HTTP layer.
type State struct {
	SessionID   string          `json:"session_id"`
	Granted     bool            `json:"granted"`
	ShowPrompt  bool            `json:"show_access_prompt"`
	ModuleIndex int             `json:"module_index"`
	Module      *content.Module `json:"module,omitempty"`

	ShowVideo        bool `json:"show_video"`
	ShowPDF          bool `json:"show_pdf"`
	ShowImage        bool `json:"show_image"`
	ShowPresentation bool `json:"show_presentation"`
	VideoError       bool `json:"video_error"`

	VideoURL        string `json:"video_url,omitempty"`
	PDFEmbedURL     string `json:"pdf_embed_url,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	PresentationURL string `json:"presentation_url,omitempty"`

	QuizState quiz.State `json:"quiz_state"`
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	st := State{
		SessionID:        s.ID,
		Granted:          s.granted,
		ShowPrompt:       s.showPrompt,
		ModuleIndex:      s.idx,
		Module:           s.cur,
		ShowVideo:        s.showVideo,
		ShowPDF:          s.showPDF,
		ShowImage:        s.showImage,
		ShowPresentation: s.showPresentation,
		VideoError:       s.videoError,
		VideoURL:         s.videoURL,
		PDFEmbedURL:      s.pdfEmbedURL,
		ImageURL:         s.imageURL,
		PresentationURL:  s.presentationURL,
	}
	s.mu.Unlock()
	st.QuizState = s.Quiz.State()
	return st
}
