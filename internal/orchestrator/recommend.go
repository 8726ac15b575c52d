package orchestrator

import (
	"context"
	"strings"

	"posterforge/internal/catalog"
	domainerrors "posterforge/internal/errors"
	"posterforge/internal/random"
)

// RecommendSong picks a soundtrack for concept from the fixed song tables.
func (o *Orchestrator) RecommendSong(ctx context.Context, concept *Concept) (*RecommendationResult, error) {
	return guard(ctx, opRecommend, func() (*RecommendationResult, error) {
		if concept == nil {
			return nil, domainerrors.Validation("concept is required")
		}
		return &RecommendationResult{Success: true, Song: recommend(*concept, o.rnd)}, nil
	})
}

func recommend(c Concept, src random.Source) catalog.Song {
	decade := catalog.Decade(c.Decade)
	if c.Decade == "" {
		decade = catalog.DefaultSongDecade
	}

	song := random.Pick(src, catalog.Songs(decade, catalog.CategoryOf(c.Genre)))

	var reason strings.Builder
	reason.WriteString(song.Reason)
	if c.Title != "" {
		reason.WriteString(` - Perfect for "` + c.Title + `"`)
	}
	if c.Decade != "" && c.Genre != "" {
		reason.WriteString(", captures " + c.Decade + " " + strings.ToLower(c.Genre) + " atmosphere")
	}
	song.Reason = reason.String()
	return song
}
