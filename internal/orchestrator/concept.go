package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"posterforge/internal/cache"
	domainerrors "posterforge/internal/errors"
	"posterforge/internal/jsonextract"
	"posterforge/internal/llm"
	"posterforge/internal/prompt"
	"posterforge/pkg/logging/logging"
)

// GenerateConcept returns a concept constrained by the genre and era filters.
// Empty filters mean "any". Successful results are cached per filter pair.
func (o *Orchestrator) GenerateConcept(ctx context.Context, genreFilter, eraFilter string) (*ConceptResult, error) {
	return guard(ctx, opConcept, func() (*ConceptResult, error) {
		return o.generateConcept(ctx, genreFilter, eraFilter)
	})
}

func (o *Orchestrator) generateConcept(ctx context.Context, genreFilter, eraFilter string) (*ConceptResult, error) {
	genre, ok := prompt.ParseGenreFilter(genreFilter)
	if !ok {
		return nil, domainerrors.ValidationWithDetails("invalid genre filter",
			map[string]any{"genreFilter": genreFilter, "allowed": []prompt.GenreFilter{
				prompt.GenreAny, prompt.GenreHorror, prompt.GenreSciFi, prompt.GenreFusion,
			}})
	}
	era, ok := prompt.ParseEraFilter(eraFilter)
	if !ok {
		return nil, domainerrors.ValidationWithDetails("invalid era filter",
			map[string]any{"eraFilter": eraFilter})
	}

	logger := logging.FromContext(ctx).With(
		zap.String("genre_filter", string(genre)),
		zap.String("era_filter", era),
	)

	key := cache.ConceptKey(string(genre), era)
	var hit ConceptResult
	if o.cached(ctx, key, &hit) {
		logger.Info("concept served from cache")
		return &hit, nil
	}

	ins, err := prompt.ConceptInstruction(genre, era, o.rnd)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to build concept instruction")
	}

	resp, err := o.text.Complete(ctx, ins.Text)
	if err != nil {
		return nil, upstreamFailure(llm.ServiceText, err)
	}

	concept, err := parseConcept(resp.Text)
	if err != nil {
		logger.Warn("text service output rejected", zap.Error(err))
		return nil, err
	}

	result := &ConceptResult{Success: true, Concept: *concept}
	o.store(ctx, key, result)

	logger.Info("concept generated",
		zap.String("title", concept.Title),
		zap.String("decade", concept.Decade),
		zap.String("pinned_decade", string(ins.Decade)),
	)
	return result, nil
}

// requiredConceptFields are checked in this order; the error lists the
// missing ones in the same order.
var requiredConceptFields = []struct {
	name string
	get  func(*Concept) string
}{
	{"decade", func(c *Concept) string { return c.Decade }},
	{"genre", func(c *Concept) string { return c.Genre }},
	{"title", func(c *Concept) string { return c.Title }},
	{"visual_elements", func(c *Concept) string { return c.VisualElements }},
}

// parseConcept runs the validation pipeline over raw model text.
func parseConcept(text string) (*Concept, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.NoStructuredOutput("")
	}

	fragment, ok := jsonextract.First(text)
	if !ok {
		return nil, domainerrors.NoStructuredOutput(text)
	}

	var c Concept
	if err := json.Unmarshal([]byte(fragment), &c); err != nil {
		return nil, domainerrors.MalformedOutput(fragment, err)
	}

	var missing []string
	for _, f := range requiredConceptFields {
		if strings.TrimSpace(f.get(&c)) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.IncompleteOutput(missing)
	}

	// artStyle is a caller choice; a model that volunteers one is ignored.
	c.ArtStyle = ""
	return &c, nil
}
