// ABOUTME: Lookup service is the entry point for subject link and answer lookups
// ABOUTME: Resolves subjects, reads through the tiered cache and degrades failures to empty values

package lookup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gbbinfo-knowledge-api/core/cachekey"
	"gbbinfo-knowledge-api/core/curation"
	"gbbinfo-knowledge-api/core/domain"
	coreerrors "gbbinfo-knowledge-api/core/errors"
	"gbbinfo-knowledge-api/core/interfaces"
	"gbbinfo-knowledge-api/core/tiered"
	"gbbinfo-knowledge-api/core/translation"
	"gbbinfo-knowledge-api/pkg/featureflags"
)

// Config holds lookup tunables
type Config struct {
	// QuerySuffix is appended to the subject name when searching
	QuerySuffix string

	// SearchTimeout bounds a single search provider call
	SearchTimeout time.Duration

	// TranslationTimeout bounds an answer translation including rate-limit waits
	TranslationTimeout time.Duration

	// RecordTimeout bounds a single analytics write
	RecordTimeout time.Duration
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		QuerySuffix:        "beatbox",
		SearchTimeout:      15 * time.Second,
		TranslationTimeout: 30 * time.Second,
		RecordTimeout:      5 * time.Second,
	}
}

// Options wires the collaborators of a Service. Directory, Translations,
// Recorder and Flags may be nil.
type Options struct {
	Cache        *tiered.Cache
	Search       interfaces.SearchProvider
	Directory    interfaces.SubjectDirectory
	Curator      *curation.Curator
	Translations *translation.Service
	Recorder     interfaces.EventRecorder
	Flags        featureflags.Manager
	Logger       interfaces.Logger
	Config       Config
}

// Service answers link and translated-answer lookups
type Service struct {
	cache        *tiered.Cache
	search       interfaces.SearchProvider
	directory    interfaces.SubjectDirectory
	curator      *curation.Curator
	translations *translation.Service
	recorder     interfaces.EventRecorder
	flags        featureflags.Manager
	logger       interfaces.Logger
	cfg          Config

	group   singleflight.Group
	pending sync.WaitGroup
	now     func() time.Time
}

// NewService creates a lookup service
func NewService(opts Options) *Service {
	return &Service{
		cache:        opts.Cache,
		search:       opts.Search,
		directory:    opts.Directory,
		curator:      opts.Curator,
		translations: opts.Translations,
		recorder:     opts.Recorder,
		flags:        opts.Flags,
		logger:       opts.Logger,
		cfg:          opts.Config,
		now:          time.Now,
	}
}

// GetLinks returns the curated links for a subject. The only error is a
// *errors.ValidationError for a reference without id or name; every other
// failure yields an empty result.
func (s *Service) GetLinks(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error) {
	name, err := s.resolveName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return domain.EmptyCurationResult(), nil
	}

	s.recordLookup(name, ref.Mode, domain.LookupLinks, "")

	record := s.searchRecord(ctx, cachekey.DeriveKey(name), name)
	if record == nil {
		return domain.EmptyCurationResult(), nil
	}

	return s.curator.Curate(record.SearchResults), nil
}

// GetTranslatedAnswer returns the subject's search answer in language. The
// empty string means there is no content or translation failed.
func (s *Service) GetTranslatedAnswer(ctx context.Context, ref domain.SubjectRef, language string) (string, error) {
	name, err := s.resolveName(ctx, ref)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}

	if s.translations == nil || !s.enabled(ctx, featureflags.AnswerTranslation) {
		return "", nil
	}

	s.recordLookup(name, ref.Mode, domain.LookupAnswer, language)

	if s.cfg.TranslationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.TranslationTimeout)
		defer cancel()
	}

	return s.translations.TranslatedAnswer(ctx, cachekey.DeriveKey(name), language), nil
}

// Wait blocks until in-flight analytics writes have finished
func (s *Service) Wait() {
	s.pending.Wait()
}

// resolveName returns the upper-cased subject name. A supplied name wins
// over the id. An empty name means the subject does not exist.
func (s *Service) resolveName(ctx context.Context, ref domain.SubjectRef) (string, error) {
	if !ref.HasInput() {
		return "", &coreerrors.ValidationError{
			Field:   "beatboxer_id",
			Message: "beatboxer_id or beatboxer_name is required",
		}
	}

	if name := strings.TrimSpace(ref.Name); name != "" {
		return strings.ToUpper(name), nil
	}

	if s.directory == nil {
		return "", nil
	}

	name, err := s.directory.ResolveName(ctx, ref.ID, ref.Mode)
	if err != nil {
		s.logger.Warn("Failed to resolve subject", map[string]interface{}{
			"id":    ref.ID,
			"mode":  string(ref.Mode),
			"error": err.Error(),
		})
		return "", nil
	}

	return strings.ToUpper(strings.TrimSpace(name)), nil
}

// searchRecord reads the record through the cache and searches on a miss.
// Concurrent misses for one key share a single search. Failed searches
// return nil and cache nothing.
func (s *Service) searchRecord(ctx context.Context, key, name string) *domain.SearchRecord {
	var cached domain.SearchRecord
	if found, _ := s.cache.Get(ctx, key, &cached); found {
		return &cached
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// The search outlives the caller that started it so coalesced
		// waiters are not cancelled along with it.
		searchCtx := context.WithoutCancel(ctx)
		if s.cfg.SearchTimeout > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(searchCtx, s.cfg.SearchTimeout)
			defer cancel()
		}

		resp, err := s.search.Search(searchCtx, s.query(name))
		if err != nil {
			return nil, err
		}

		record := domain.NewSearchRecord(resp)
		// Raw results never expire; a durable failure is logged by the cache
		_ = s.cache.Set(searchCtx, key, record, 0)
		return record, nil
	})
	if err != nil {
		s.logger.Warn("Search failed", map[string]interface{}{
			"subject": name,
			"key":     key,
			"shared":  shared,
			"error":   err.Error(),
		})
		return nil
	}

	return v.(*domain.SearchRecord)
}

func (s *Service) query(name string) string {
	if s.cfg.QuerySuffix == "" {
		return name
	}
	return fmt.Sprintf("%s %s", name, s.cfg.QuerySuffix)
}

// recordLookup dispatches an analytics event without blocking the caller.
// Failures and panics are logged only.
func (s *Service) recordLookup(name string, mode domain.Mode, kind domain.LookupKind, language string) {
	if s.recorder == nil || !s.enabled(context.Background(), featureflags.LookupRecording) {
		return
	}

	event := domain.LookupEvent{
		SubjectName: name,
		Mode:        mode,
		Kind:        kind,
		Language:    language,
		CreatedAt:   s.now().UTC(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Lookup recorder panicked", map[string]interface{}{
					"subject": name,
					"panic":   fmt.Sprint(r),
				})
			}
		}()

		ctx := context.Background()
		if s.cfg.RecordTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.RecordTimeout)
			defer cancel()
		}

		if err := s.recorder.Record(ctx, event); err != nil {
			s.logger.Warn("Failed to record lookup", map[string]interface{}{
				"subject": name,
				"kind":    string(kind),
				"error":   err.Error(),
			})
		}
	}()
}

func (s *Service) enabled(ctx context.Context, flag featureflags.FeatureFlag) bool {
	if s.flags != nil {
		return s.flags.IsEnabled(ctx, flag)
	}
	return featureflags.IsEnabled(ctx, flag)
}
