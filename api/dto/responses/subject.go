// ABOUTME: Response DTOs for subject lookup endpoints
// ABOUTME: Shapes curated links, translated answers and cache statistics for clients

package responses

// LinkResponse is one curated link
type LinkResponse struct {
	Title         string `json:"title" doc:"Page title"`
	URL           string `json:"url" doc:"Link address"`
	Content       string `json:"content" doc:"Snippet extracted by the search provider"`
	PrimaryDomain string `json:"primary_domain" doc:"Last two labels of the host"`
}

// SubjectLinksResponse is the curated link set of a subject
type SubjectLinksResponse struct {
	AccountURLs     []LinkResponse `json:"account_urls" doc:"Social account links, one per domain"`
	FinalURLs       []LinkResponse `json:"final_urls" doc:"Informational links"`
	YoutubeEmbedURL string         `json:"youtube_embed_url" doc:"Embeddable teaser video, empty when none"`
}

// AnswerTranslationResponse carries the translated answer
type AnswerTranslationResponse struct {
	Answer string `json:"answer" doc:"Answer in the requested language, empty when unavailable"`
}

// CacheStatsResponse wraps cache statistics
type CacheStatsResponse struct {
	Data CacheStatsData `json:"data"`
}

// CacheStatsData are the tiered cache counters plus durable store details
type CacheStatsData struct {
	LocalHits     int64                  `json:"local_hits"`
	DurableHits   int64                  `json:"durable_hits"`
	Misses        int64                  `json:"misses"`
	DurableErrors int64                  `json:"durable_errors"`
	HitRate       float64                `json:"hit_rate"`
	LocalEntries  int                    `json:"local_entries"`
	HasDurable    bool                   `json:"has_durable"`
	Durable       map[string]interface{} `json:"durable,omitempty"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
