package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"posterforge/internal/orchestrator"
	"posterforge/internal/validation"
	"posterforge/pkg/logging/logging"
)

// Generator is the orchestrator surface the poster routes call.
type Generator interface {
	GenerateConcept(ctx context.Context, genreFilter, eraFilter string) (*orchestrator.ConceptResult, error)
	GenerateImage(ctx context.Context, concept orchestrator.Concept, visualElements string) (*orchestrator.ImageResult, error)
	RecommendSong(ctx context.Context, concept *orchestrator.Concept) (*orchestrator.RecommendationResult, error)
	GenerateCaption(ctx context.Context, concept *orchestrator.Concept) (*orchestrator.CaptionResult, error)
}

type generateConceptRequest struct {
	GenreFilter string `json:"genreFilter" validate:"max=32"`
	EraFilter   string `json:"eraFilter" validate:"max=32"`
}

type generateImageRequest struct {
	Concept        orchestrator.Concept `json:"concept"`
	VisualElements string               `json:"visualElements" validate:"max=10000"`
}

type conceptRequest struct {
	Concept *orchestrator.Concept `json:"concept" validate:"required"`
}

type PosterHandler struct {
	gen      Generator
	validate *validation.Validator
}

func NewPosterHandler(gen Generator, v *validation.Validator) *PosterHandler {
	if v == nil {
		v = validation.New()
	}
	return &PosterHandler{gen: gen, validate: v}
}

// bind decodes and validates the request body.
func (h *PosterHandler) bind(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return h.validate.Validate(dst)
}

// GenerateConcept handles POST /api/generate-concept.
func (h *PosterHandler) GenerateConcept(w http.ResponseWriter, r *http.Request) {
	var req generateConceptRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	logging.L(r.Context()).Info("concept generation request",
		zap.String("genre_filter", req.GenreFilter),
		zap.String("era_filter", req.EraFilter),
	)

	res, err := h.gen.GenerateConcept(r.Context(), req.GenreFilter, req.EraFilter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateImage handles POST /api/generate-image.
func (h *PosterHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.gen.GenerateImage(r.Context(), req.Concept, req.VisualElements)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RecommendSong handles POST /api/get-song-recommendation.
func (h *PosterHandler) RecommendSong(w http.ResponseWriter, r *http.Request) {
	var req conceptRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.gen.RecommendSong(r.Context(), req.Concept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateCaption handles POST /api/generate-instagram-caption.
func (h *PosterHandler) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	var req conceptRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.gen.GenerateCaption(r.Context(), req.Concept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
