package orchestrator

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"posterforge/internal/cache"
	domainerrors "posterforge/internal/errors"
	"posterforge/internal/llm"
	"posterforge/internal/prompt"
	"posterforge/pkg/logging/logging"
)

const dataURLPrefix = "data:image/png;base64,"

// GenerateImage renders a poster for concept. When visualElements is blank the
// concept's own visual elements are used. The cache key covers both inputs
// as given.
func (o *Orchestrator) GenerateImage(ctx context.Context, concept Concept, visualElements string) (*ImageResult, error) {
	return guard(ctx, opImage, func() (*ImageResult, error) {
		return o.generateImage(ctx, concept, visualElements)
	})
}

func (o *Orchestrator) generateImage(ctx context.Context, concept Concept, visualElements string) (*ImageResult, error) {
	key, err := cache.ImageKey(concept, visualElements)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to build image cache key")
	}
	logger := logging.FromContext(ctx).With(zap.String("title", concept.Title))

	var hit ImageResult
	if o.cached(ctx, key, &hit) {
		logger.Info("image served from cache")
		return &hit, nil
	}

	beats := visualElements
	if strings.TrimSpace(beats) == "" {
		beats = concept.VisualElements
	}
	posterPrompt := prompt.Poster(prompt.PosterInput{
		Genre:          concept.Genre,
		Decade:         concept.Decade,
		ArtStyle:       concept.ArtStyle,
		VisualElements: beats,
	}, o.opts.Limits)

	logger.Debug("poster prompt assembled", zap.String("prompt", posterPrompt))

	resp, err := o.image.Generate(ctx, posterPrompt)
	if err != nil {
		return nil, upstreamFailure(llm.ServiceImage, err)
	}

	b64 := resp.B64JSON
	if b64 == "" && resp.URL != "" {
		data, err := o.image.Download(ctx, resp.URL)
		if err != nil {
			if o.opts.AllowRemoteFallback {
				logger.Warn("image download failed, returning remote reference",
					zap.String("url", resp.URL), zap.Error(err))
				return &ImageResult{
					Success:       true,
					Degraded:      true,
					ImageURL:      resp.URL,
					OriginalURL:   resp.URL,
					RevisedPrompt: resp.RevisedPrompt,
				}, nil
			}
			return nil, domainerrors.ImageFetch(resp.URL, err)
		}
		b64 = base64.StdEncoding.EncodeToString(data)
	}
	if b64 == "" {
		return nil, domainerrors.NoImageData()
	}

	result := &ImageResult{
		Success:       true,
		ImageURL:      dataURLPrefix + b64,
		OriginalURL:   resp.URL,
		RevisedPrompt: resp.RevisedPrompt,
	}
	o.store(ctx, key, result)

	logger.Info("image generated", zap.Bool("downloaded", resp.B64JSON == ""))
	return result, nil
}
