// Package orchestrator turns categorical inputs into generated movie
// concepts, poster images, song recommendations and captions.
//
// Each operation is strictly sequential: cache read, prompt assembly, one
// external call, validation, cache write. Only the cache is shared between
// calls, and concurrent identical misses each reach the provider.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domainerrors "posterforge/internal/errors"
	"posterforge/internal/llm"
	"posterforge/internal/metrics"
	"posterforge/internal/prompt"
	"posterforge/internal/random"
	"posterforge/pkg/logging/logging"
)

// TextGenerator is the text-generation service.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (*llm.TextResponse, error)
}

// ImageGenerator is the image-generation service and the downloader for the
// remote references it may return.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*llm.ImageResponse, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Cache is the subset of cache.Store the orchestrator needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Options struct {
	// Limits bounds the poster prompt; zero values use prompt.DefaultLimits.
	Limits prompt.Limits
	// AllowRemoteFallback returns a degraded result pointing at the remote
	// image when its download fails, instead of an IMAGE_FETCH error.
	AllowRemoteFallback bool
	// Random defaults to the unseeded process-wide source.
	Random random.Source
}

type Orchestrator struct {
	cache Cache
	text  TextGenerator
	image ImageGenerator
	rnd   random.Source
	opts  Options
}

// New wires an Orchestrator. The cache is shared across calls and must be
// safe for concurrent use.
func New(c Cache, text TextGenerator, image ImageGenerator, opts Options) *Orchestrator {
	if opts.Random == nil {
		opts.Random = random.Default()
	}
	return &Orchestrator{
		cache: c,
		text:  text,
		image: image,
		rnd:   opts.Random,
		opts:  opts,
	}
}

const (
	opConcept   = "generate_concept"
	opImage     = "generate_image"
	opRecommend = "recommend_song"
	opCaption   = "generate_caption"
)

// guard runs fn, converts a panic into an INTERNAL error and records the
// outcome of the operation.
func guard[T any](ctx context.Context, op string, fn func() (*T, error)) (res *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("orchestrator panic",
				zap.String("operation", op),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			res, err = nil, domainerrors.Internalf("%s failed", op).WithCause(fmt.Errorf("panic: %v", r))
		}

		code := "OK"
		if err != nil {
			code = string(domainerrors.From(err).Code)
		}
		metrics.OrchestrationsTotal.WithLabelValues(op, code).Inc()
	}()
	return fn()
}

// upstreamFailure maps a client error into the domain taxonomy.
func upstreamFailure(service string, err error) error {
	var up *llm.UpstreamError
	switch {
	case domainerrors.As(err, &up):
		return domainerrors.Upstream(up.Service, up.StatusCode, up.Body).WithCause(err)
	case domainerrors.Is(err, llm.ErrTimeout):
		return domainerrors.UpstreamTimeout(service, err)
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUpstream, service+" service unreachable")
	}
}

// cached reads key into out. Errors and undecodable payloads count as misses.
func (o *Orchestrator) cached(ctx context.Context, key string, out any) bool {
	data, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Warn("cache read failed, treating as miss",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.FromContext(ctx).Warn("cached payload undecodable, treating as miss",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// store writes v under key. Failures are logged and otherwise ignored.
func (o *Orchestrator) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = o.cache.Set(ctx, key, data)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("cache write failed",
			zap.String("key", key), zap.Error(err))
	}
}
