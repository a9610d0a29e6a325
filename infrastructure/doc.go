// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// - cache/memory: process-local cache on patrickmn/go-cache
// - cache/redis: durable record store on RedisJSON
// - cache/sqlite: durable record store and lookup event log on SQLite
// - postgres: subject directory, durable record store and goose migrations
// - http/standard: HTTP client with retries and request logging
// - search/tavily: Tavily search provider
// - llm/gemini: Gemini text generation with call spacing and reply memoization
// - logger/logrus: structured JSON logging
//
// # Durable Stores
//
//	store, err := sqlite.NewClient("knowledge_cache.db", logger)
//	if err != nil {
//	    // Run on the local tier alone
//	}
//	defer store.Close()
//
// Every store keeps one JSON record per key with the columns searchResults,
// answer and answerTranslations, and reports a miss as errors.ErrCacheMiss.
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(15*time.Second, logger)
//	resp, err := client.Post(ctx, url, body, map[string]string{"Authorization": "Bearer " + key})
//
// # Logger
//
//	logger := logrus.NewLogger("info")
//	logger.Info("Lookup served", map[string]interface{}{"subject": "WING"})
package infrastructure
