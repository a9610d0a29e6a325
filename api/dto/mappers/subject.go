// ABOUTME: Mappers for converting lookup results into API DTOs
// ABOUTME: Keeps JSON naming of the HTTP surface out of the domain types

package mappers

import (
	"gbbinfo-knowledge-api/api/dto/responses"
	"gbbinfo-knowledge-api/core/domain"
	"gbbinfo-knowledge-api/core/tiered"
)

// ToSubjectLinksResponse converts a curation result. Empty buckets are
// rendered as empty arrays.
func ToSubjectLinksResponse(result *domain.CurationResult) *responses.SubjectLinksResponse {
	if result == nil {
		result = domain.EmptyCurationResult()
	}

	return &responses.SubjectLinksResponse{
		AccountURLs:     toLinks(result.AccountURLs),
		FinalURLs:       toLinks(result.FinalURLs),
		YoutubeEmbedURL: result.YoutubeEmbedURL,
	}
}

func toLinks(items []domain.ResultItem) []responses.LinkResponse {
	links := make([]responses.LinkResponse, 0, len(items))
	for _, item := range items {
		links = append(links, responses.LinkResponse{
			Title:         item.Title,
			URL:           item.URL,
			Content:       item.Content,
			PrimaryDomain: item.PrimaryDomain,
		})
	}
	return links
}

// ToCacheStatsData converts tiered cache counters. durable may be nil.
func ToCacheStatsData(stats tiered.Stats, durable map[string]interface{}) responses.CacheStatsData {
	return responses.CacheStatsData{
		LocalHits:     stats.LocalHits,
		DurableHits:   stats.DurableHits,
		Misses:        stats.Misses,
		DurableErrors: stats.DurableErrors,
		HitRate:       stats.HitRate,
		LocalEntries:  stats.LocalEntries,
		HasDurable:    stats.HasDurable,
		Durable:       durable,
	}
}
