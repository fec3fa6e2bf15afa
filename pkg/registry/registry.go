// Package registry provides a ripple.Checker backed by hot-reloaded lists
// of reserved usernames.
//
// Each list is read from a ripple.Watcher (pkg/file for a file on disk,
// ripple.ChannelWatcher in tests) and decoded with a ripple.Codec:
//
//	reserved:
//	  - admin
//	  - root
//
// A username is available when no source reserves it. Comparison ignores
// case and surrounding whitespace. A document that fails to decode or
// validate is rejected and that source's previous list stays active.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/ripple"
)

// ErrNotLoaded is returned by Check before any document has been applied.
var ErrNotLoaded = errors.New("registry not loaded")

// Document is the decoded form of a registry source.
type Document struct {
	Reserved []string `json:"reserved" yaml:"reserved" validate:"dive,required"`
}

// SourceError is the error of the last rejected document of one source.
type SourceError struct {
	Index int
	Err   error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Registry answers availability checks from the union of its sources'
// reserved-name lists.
type Registry struct {
	watchers []ripple.Watcher
	codecs   []ripple.Codec
	codec    ripple.Codec
	onApply  func(size int)

	names     atomic.Pointer[map[string]struct{}]
	lastError atomic.Pointer[error]

	mu           sync.Mutex
	started      bool
	sets         []map[string]struct{}
	sourceErrors map[int]error
	done         chan struct{}
}

// New creates a Registry fed by watchers. The default codec is JSON.
func New(watchers ...ripple.Watcher) *Registry {
	return &Registry{
		watchers:     watchers,
		codecs:       make([]ripple.Codec, len(watchers)),
		codec:        ripple.JSONCodec{},
		sets:         make([]map[string]struct{}, len(watchers)),
		sourceErrors: map[int]error{},
		done:         make(chan struct{}),
	}
}

// Codec sets the codec for decoding documents. Must be called before Start().
func (r *Registry) Codec(codec ripple.Codec) *Registry {
	r.codec = codec
	return r
}

// Source adds a watcher decoded with its own codec, overriding the
// registry codec for that source. Must be called before Start().
func (r *Registry) Source(w ripple.Watcher, codec ripple.Codec) *Registry {
	r.watchers = append(r.watchers, w)
	r.codecs = append(r.codecs, codec)
	r.sets = append(r.sets, nil)
	return r
}

// OnApply sets a callback invoked with the number of reserved names after
// each document is applied. Must be called before Start().
func (r *Registry) OnApply(fn func(size int)) *Registry {
	r.onApply = fn
	return r
}

// Start begins watching every source. It blocks until each source has
// produced its first document and returns their errors, if any, while
// continuing to watch in the background for valid updates.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ripple.ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	// Watchers run on a child context so a failed Start stops the ones
	// already started.
	wctx, cancel := context.WithCancel(ctx)
	abort := func(err error) error {
		cancel()
		close(r.done)
		return err
	}

	chans := make([]<-chan []byte, len(r.watchers))
	for i, w := range r.watchers {
		ch, err := w.Watch(wctx)
		if err != nil {
			return abort(fmt.Errorf("failed to start watcher %d: %w", i, err))
		}
		chans[i] = ch
	}

	var errs []error
	for i, ch := range chans {
		select {
		case <-ctx.Done():
			return abort(ctx.Err())
		case raw, ok := <-ch:
			if !ok {
				return abort(fmt.Errorf("watcher %d closed before emitting initial document", i))
			}
			if err := r.apply(ctx, i, raw); err != nil {
				errs = append(errs, fmt.Errorf("source %d: %w", i, err))
			}
		}
	}

	var wg sync.WaitGroup
	for i, ch := range chans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range ch {
				_ = r.apply(ctx, i, raw) //nolint:errcheck // Errors stored via SourceErrors
			}
		}()
	}
	go func() {
		wg.Wait()
		cancel()
		close(r.done)
	}()

	return errors.Join(errs...)
}

// Done is closed once the registry stops watching.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

// apply decodes, validates and installs one document from source i.
func (r *Registry) apply(ctx context.Context, i int, raw []byte) error {
	codec := r.codecFor(i)
	var doc Document
	if err := codec.Unmarshal(raw, &doc); err != nil {
		return r.fail(ctx, i, fmt.Errorf("decode failed: %w", err))
	}
	if err := validate.Struct(doc); err != nil {
		return r.fail(ctx, i, fmt.Errorf("validation failed: %w", err))
	}

	set := make(map[string]struct{}, len(doc.Reserved))
	for _, name := range doc.Reserved {
		set[normalize(name)] = struct{}{}
	}

	r.mu.Lock()
	r.sets[i] = set
	delete(r.sourceErrors, i)
	union := make(map[string]struct{})
	for _, s := range r.sets {
		for name := range s {
			union[name] = struct{}{}
		}
	}
	r.names.Store(&union)
	if len(r.sourceErrors) == 0 {
		r.lastError.Store(nil)
	}
	r.mu.Unlock()

	capitan.Emit(ctx, RegistryLoaded,
		KeySource.Field(i),
		KeySize.Field(len(union)),
		KeyContentType.Field(codec.ContentType()),
	)
	if r.onApply != nil {
		r.onApply(len(union))
	}
	return nil
}

func (r *Registry) codecFor(i int) ripple.Codec {
	if c := r.codecs[i]; c != nil {
		return c
	}
	return r.codec
}

func (r *Registry) fail(ctx context.Context, i int, err error) error {
	r.mu.Lock()
	r.sourceErrors[i] = err
	e := err
	r.lastError.Store(&e)
	r.mu.Unlock()

	capitan.Emit(ctx, RegistryFailed,
		KeySource.Field(i),
		ripple.KeyError.Field(err.Error()),
	)
	return err
}

// Check reports whether username is not reserved by any source.
func (r *Registry) Check(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	names := r.names.Load()
	if names == nil {
		return false, ErrNotLoaded
	}
	_, reserved := (*names)[normalize(username)]
	return !reserved, nil
}

// Len returns the number of reserved names, or 0 before the first load.
func (r *Registry) Len() int {
	names := r.names.Load()
	if names == nil {
		return 0
	}
	return len(*names)
}

// Loaded reports whether a document has been applied.
func (r *Registry) Loaded() bool {
	return r.names.Load() != nil
}

// LastError returns the most recent rejection, or nil once every source's
// latest document has been applied.
func (r *Registry) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// SourceErrors returns the sources whose latest document was rejected,
// ordered by index.
func (r *Registry) SourceErrors() []SourceError {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sourceErrors) == 0 {
		return nil
	}
	out := make([]SourceError, 0, len(r.sourceErrors))
	for i := range r.sets {
		if err, ok := r.sourceErrors[i]; ok {
			out = append(out, SourceError{Index: i, Err: err})
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ ripple.Checker[string] = (*Registry)(nil)
