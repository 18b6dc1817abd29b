// Package window models the translation window: two language selectors
// over the same table, an input text, an output text and the translate
// and swap actions.
//
// Translate is asynchronous. Each call delivers at most one Reply on its
// own channel and closes it. Overlapping calls are neither serialised nor
// cancelled; the output shows whichever reply was delivered last. The
// output has a single writer at a time.
package window

//go:generate mockgen -source=window.go -destination=mock/window_mock.go

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valpere/perekladach/internal"
	"github.com/valpere/perekladach/internal/language"
	"github.com/valpere/perekladach/internal/translator"
)

// Window defaults. DefaultUnavailableText is only shown when WithUnavailableText enables it.
const (
	DefaultSource          = "Russian"
	DefaultTarget          = "English"
	DefaultErrorLabel      = "Ошибка:"
	DefaultUnavailableText = "Translation unavailable"
)

// Translator performs one translation per call. Window calls it from a
// separate goroutine for every translate action that needs the network.
type Translator interface {
	Name() string
	Translate(ctx context.Context, req translator.Request) (*translator.Result, error)
}

// Recorder receives every translation that reached the output through the
// network. Errors are logged and never change the output.
type Recorder interface {
	Record(ctx context.Context, t internal.Translation) error
}

// Detector guesses the ISO 639-1 code of a text.
type Detector interface {
	DetectISO(text string) (string, bool)
}

// Checker inspects a delivered translation. A non-nil error is logged as
// a warning; the output keeps the delivered text.
type Checker interface {
	Check(text string, target language.Entry) error
}

// Reply is the single delivery of a translate action. Shown reports
// whether Text was written to the output.
type Reply struct {
	Request translator.Request
	Text    string
	Err     error
	Shown   bool
}

// Snapshot is a consistent copy of the window state.
type Snapshot struct {
	Source language.Entry
	Target language.Entry
	Input  string
	Output string
}

// Window holds the selector, input and output state. It is safe for
// concurrent use; see the package doc for the Translate contract.
type Window struct {
	svc      Translator
	log      *zap.Logger
	recorder Recorder
	detector Detector
	checker  Checker

	errorLabel      string
	unavailableText string
	defaultSource   string
	defaultTarget   string

	mu        sync.Mutex
	source    int
	target    int
	input     string
	output    string
	listeners []func(string)

	pending sync.WaitGroup
}

// Option configures a Window in New.
type Option func(*Window)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(w *Window) {
		if log != nil {
			w.log = log
		}
	}
}

// WithDefaults sets the display names selected at startup.
func WithDefaults(source, target string) Option {
	return func(w *Window) {
		w.defaultSource = source
		w.defaultTarget = target
	}
}

// WithErrorLabel sets the text put before a failure description.
func WithErrorLabel(label string) Option {
	return func(w *Window) { w.errorLabel = label }
}

// WithUnavailableText makes a response without a translation show text
// instead of leaving the output untouched.
func WithUnavailableText(text string) Option {
	return func(w *Window) { w.unavailableText = text }
}

// WithRecorder journals successful translations into r.
func WithRecorder(r Recorder) Option {
	return func(w *Window) { w.recorder = r }
}

// WithDetector enables Detect.
func WithDetector(d Detector) Option {
	return func(w *Window) { w.detector = d }
}

// WithChecker logs a warning when a delivered translation does not look
// like the target language. The output is not altered.
func WithChecker(c Checker) Option {
	return func(w *Window) { w.checker = c }
}

// New returns a window over svc with the default languages selected.
func New(svc Translator, opts ...Option) *Window {
	w := &Window{
		svc:           svc,
		log:           zap.NewNop(),
		errorLabel:    DefaultErrorLabel,
		defaultSource: DefaultSource,
		defaultTarget: DefaultTarget,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.source = w.initialIndex("source", w.defaultSource)
	w.target = w.initialIndex("target", w.defaultTarget)

	return w
}

// initialIndex falls back to the first entry when name is not in the table.
func (w *Window) initialIndex(selector, name string) int {
	if _, idx, ok := language.ByName(name); ok {
		return idx
	}
	w.log.Warn("default language not in table, using first entry",
		zap.String("selector", selector), zap.String("name", name))
	return 0
}

// SourceOptions and TargetOptions return the entries each selector offers.
func (w *Window) SourceOptions() []language.Entry { return language.All() }
func (w *Window) TargetOptions() []language.Entry { return language.All() }

// Source returns the selected source language.
func (w *Window) Source() language.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, _ := language.At(w.source)
	return e
}

// Target returns the selected target language.
func (w *Window) Target() language.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, _ := language.At(w.target)
	return e
}

func (w *Window) SourceIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.source
}

func (w *Window) TargetIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// SetSourceIndex selects the source by table position.
func (w *Window) SetSourceIndex(i int) error {
	return w.setIndex(&w.source, i)
}

func (w *Window) SetTargetIndex(i int) error {
	return w.setIndex(&w.target, i)
}

func (w *Window) setIndex(sel *int, i int) error {
	if _, ok := language.At(i); !ok {
		return fmt.Errorf("language index out of range: %d", i)
	}
	w.mu.Lock()
	*sel = i
	w.mu.Unlock()
	return nil
}

// SelectSource selects the source language by code or display name.
func (w *Window) SelectSource(s string) error {
	return w.selectLang(&w.source, s)
}

// SelectTarget selects the target language by code or display name.
func (w *Window) SelectTarget(s string) error {
	return w.selectLang(&w.target, s)
}

func (w *Window) selectLang(sel *int, s string) error {
	_, idx, ok := language.Lookup(s)
	if !ok {
		return fmt.Errorf("unknown language: %q", s)
	}
	return w.setIndex(sel, idx)
}

// Swap exchanges the selected source and target languages.
func (w *Window) Swap() {
	w.mu.Lock()
	w.source, w.target = w.target, w.source
	w.mu.Unlock()
}

// SetInput replaces the input text. It does not translate.
func (w *Window) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

func (w *Window) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// Output returns the text last written to the output.
func (w *Window) Output() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.output
}

// Snapshot returns the whole state read under one lock.
func (w *Window) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	src, _ := language.At(w.source)
	tgt, _ := language.At(w.target)
	return Snapshot{Source: src, Target: tgt, Input: w.input, Output: w.output}
}

// OnOutput registers fn to be called with the new output after every write.
func (w *Window) OnOutput(fn func(string)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

func (w *Window) setOutput(text string) {
	w.mu.Lock()
	w.output = text
	listeners := make([]func(string), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(text)
	}
}

// Detect selects the source language detected in the input, if any.
func (w *Window) Detect() (language.Entry, bool) {
	if w.detector == nil {
		return language.Entry{}, false
	}
	code, ok := w.detector.DetectISO(w.Input())
	if !ok {
		return language.Entry{}, false
	}
	e, idx, ok := language.ByCode(code)
	if !ok {
		return language.Entry{}, false
	}
	w.mu.Lock()
	w.source = idx
	w.mu.Unlock()
	return e, true
}

// Wait blocks until every outstanding translation has been delivered.
func (w *Window) Wait() {
	w.pending.Wait()
}

// Translate runs the translate action. Empty input returns a closed
// channel without a reply. Identical languages copy the input to the
// output without a network call. Otherwise the request runs in the
// background and its reply is delivered once the output is updated.
func (w *Window) Translate(ctx context.Context) <-chan Reply {
	done := make(chan Reply, 1)

	w.mu.Lock()
	text := strings.TrimSpace(w.input)
	src, _ := language.At(w.source)
	tgt, _ := language.At(w.target)
	w.mu.Unlock()

	if text == "" {
		close(done)
		return done
	}

	req := translator.Request{
		ID:         uuid.New().String(),
		Text:       text,
		SourceLang: src.Code,
		TargetLang: tgt.Code,
	}

	if src.Code == tgt.Code {
		w.setOutput(text)
		done <- Reply{Request: req, Text: text, Shown: true}
		close(done)
		return done
	}

	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		defer close(done)
		done <- w.complete(ctx, req)
	}()

	return done
}

func (w *Window) complete(ctx context.Context, req translator.Request) Reply {
	log := w.log.With(
		zap.String("request_id", req.ID),
		zap.String("service", w.svc.Name()),
		zap.String("langpair", req.SourceLang+"|"+req.TargetLang),
	)

	start := time.Now()
	res, err := w.svc.Translate(ctx, req)
	if err == nil && res == nil {
		err = translator.ErrNoTranslation
	}

	switch {
	case err == nil:
		w.setOutput(res.TranslatedText)
		log.Debug("translation delivered",
			zap.Duration("latency", time.Since(start)),
			zap.Float64("match", res.Match))
		w.check(log, res.TranslatedText, req.TargetLang)
		w.record(ctx, log, req, res)
		return Reply{Request: req, Text: res.TranslatedText, Shown: true}

	case errors.Is(err, translator.ErrNoTranslation):
		log.Warn("response carried no translation", zap.Error(err))
		if w.unavailableText == "" {
			return Reply{Request: req, Err: err}
		}
		w.setOutput(w.unavailableText)
		return Reply{Request: req, Text: w.unavailableText, Err: err, Shown: true}

	default:
		log.Warn("translation failed", zap.Error(err))
		msg := w.errorText(err)
		w.setOutput(msg)
		return Reply{Request: req, Text: msg, Err: err, Shown: true}
	}
}

func (w *Window) errorText(err error) string {
	if w.errorLabel == "" {
		return err.Error()
	}
	return w.errorLabel + " " + err.Error()
}

func (w *Window) check(log *zap.Logger, text, targetLang string) {
	if w.checker == nil {
		return
	}
	target, _, ok := language.ByCode(targetLang)
	if !ok {
		return
	}
	if err := w.checker.Check(text, target); err != nil {
		log.Warn("delivered translation failed the output check", zap.Error(err))
	}
}

func (w *Window) record(ctx context.Context, log *zap.Logger, req translator.Request, res *translator.Result) {
	if w.recorder == nil {
		return
	}
	err := w.recorder.Record(ctx, internal.Translation{
		ID:             req.ID,
		SourceText:     req.Text,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		TranslatedText: res.TranslatedText,
		Service:        res.ServiceName,
		Latency:        res.Latency,
		Timestamp:      time.Now(),
	})
	if err != nil {
		log.Warn("failed to record history", zap.Error(err))
	}
}
