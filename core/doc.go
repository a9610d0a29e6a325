// Package core contains the business logic of the knowledge API. It has no
// web framework dependencies; storage, providers and logging are injected
// through the interfaces package.
//
// - domain: search records, curated results, subjects and lookup events
// - cachekey: cache key derivation from subject names
// - tiered: the local plus durable record cache
// - curation: link classification and video teaser extraction
// - translation: answer translation, JSON repair and the translation cache
// - ratelimit: call spacing for the text-generation provider
// - lookup: the GetLinks and GetTranslatedAnswer facade
// - errors: error types shared across layers
// - interfaces: contracts for cache, store, HTTP, providers and logging
//
// # Usage Example
//
//	cache := tiered.New(interfaces.Dependencies{
//	    Cache:  memory.NewMemoryCache(10 * time.Minute),
//	    Store:  store,
//	    Logger: logger,
//	})
//	svc := lookup.NewService(lookup.Options{
//	    Cache:   cache,
//	    Search:  searchProvider,
//	    Curator: curation.NewCurator(curation.DefaultConfig()),
//	    Logger:  logger,
//	    Config:  lookup.DefaultConfig(),
//	})
//	result, err := svc.GetLinks(ctx, domain.SubjectRef{Name: "wing", Mode: domain.ModeSingle})
package core
