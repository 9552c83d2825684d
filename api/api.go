// Package api serves cue phrase tables and transition word research over
// HTTP and NATS request/reply.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/c360studio/semcue/cuephrase"
	"github.com/c360studio/semcue/document"
	"github.com/c360studio/semcue/metrics"
	"github.com/c360studio/semcue/transition"
)

// errBadRequest marks lookups that fail because of caller input.
var errBadRequest = errors.New("bad request")

// LanguageInfo summarises one registered table.
type LanguageInfo struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Single   int    `json:"single"`
	Multiple int    `json:"multiple"`
}

// PhraseRequest asks for the phrases of one language.
type PhraseRequest struct {
	Language string `json:"language"`
	View     string `json:"view,omitempty"`
}

// PhraseResponse carries either the full Phrases (view all) or the words of a
// single view.
type PhraseResponse struct {
	Language string             `json:"language,omitempty"`
	View     cuephrase.View     `json:"view,omitempty"`
	Phrases  *cuephrase.Phrases `json:"phrases,omitempty"`
	Words    []string           `json:"words,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// ResearchRequest is the body of a research call. MimeType selects how Text
// is extracted; plain text is assumed when it is empty.
type ResearchRequest struct {
	Text     string `json:"text"`
	MimeType string `json:"mime_type,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Server answers phrase and research requests from a registry.
type Server struct {
	registry   *cuephrase.Registry
	thresholds transition.Thresholds
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu        sync.Mutex
	analyzers map[*cuephrase.Set]*transition.Analyzer
}

// NewServer creates a Server. m may be nil.
func NewServer(registry *cuephrase.Registry, thresholds transition.Thresholds, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry:   registry,
		thresholds: thresholds,
		metrics:    m,
		logger:     logger,
		analyzers:  make(map[*cuephrase.Set]*transition.Analyzer),
	}
}

// Languages lists the registered tables.
func (s *Server) Languages() []LanguageInfo {
	codes := s.registry.Languages()
	out := make([]LanguageInfo, 0, len(codes))
	for _, code := range codes {
		set, ok := s.registry.Lookup(code)
		if !ok {
			continue
		}
		out = append(out, LanguageInfo{
			Language: set.Language(),
			Name:     set.Name(),
			Single:   len(set.SingleWords()),
			Multiple: len(set.MultipleWords()),
		})
	}
	return out
}

// Phrases resolves a PhraseRequest. Errors wrap cuephrase.ErrUnknownLanguage
// or errBadRequest.
func (s *Server) Phrases(req PhraseRequest) (PhraseResponse, error) {
	view, err := cuephrase.ParseView(req.View)
	if err != nil {
		return PhraseResponse{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	set, err := s.lookup(req.Language)
	if err != nil {
		return PhraseResponse{}, err
	}

	resp := PhraseResponse{Language: set.Language(), View: view}
	if view == cuephrase.ViewAll {
		phrases := set.Phrases()
		resp.Phrases = &phrases
	} else {
		resp.Words = set.View(view)
	}
	return resp, nil
}

// Research extracts text from req and reports on its transition words.
func (s *Server) Research(lang string, req ResearchRequest) (transition.Report, error) {
	set, err := s.lookup(lang)
	if err != nil {
		return transition.Report{}, err
	}

	text := req.Text
	if req.MimeType != "" {
		doc, err := document.Extract(req.Source, req.MimeType, []byte(req.Text))
		if err != nil {
			return transition.Report{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		text = doc.Text
	}

	report := s.analyzer(set).Report(req.Source, text, s.thresholds)
	s.metrics.ObserveResearch(report.Language, string(report.Assessment.Rating), report.TotalSentences)
	s.logger.Debug("Research complete",
		slog.String("language", report.Language),
		slog.String("id", report.ID),
		slog.Int("sentences", report.TotalSentences),
		slog.String("rating", string(report.Assessment.Rating)))
	return report, nil
}

func (s *Server) lookup(lang string) (*cuephrase.Set, error) {
	code, err := cuephrase.NormalizeLanguage(lang)
	if err != nil {
		s.metrics.ObserveLookup("", metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	set, err := s.registry.Get(code)
	if err != nil {
		s.metrics.ObserveLookup("", metrics.ResultMiss)
		return nil, err
	}
	s.metrics.ObserveLookup(code, metrics.ResultHit)
	return set, nil
}

// analyzer returns the cached analyzer of set. Replacing a table yields a new
// set and therefore a fresh analyzer.
func (s *Server) analyzer(set *cuephrase.Set) *transition.Analyzer {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analyzers[set]
	if !ok {
		a = transition.NewAnalyzer(set)
		s.analyzers[set] = a
	}
	return a
}
