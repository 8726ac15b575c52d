package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "posterforge/internal/errors"
	"posterforge/internal/validation"
)

type inner struct {
	Title string `json:"title" validate:"required"`
}

type request struct {
	Genre   string `json:"genreFilter" validate:"omitempty,oneof=any horror sci-fi fusion"`
	Concept *inner `json:"concept" validate:"required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(request{Genre: "horror", Concept: &inner{Title: "X"}}))
	assert.NoError(t, v.Validate(request{Concept: &inner{Title: "X"}}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(request{Genre: "western", Concept: &inner{}})
	require.Error(t, err)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus())
	assert.Equal(t, map[string]string{
		"genreFilter":   "must be one of: any horror sci-fi fusion",
		"concept.title": "is required",
	}, de.Details)
}

func TestValidator_RequiredPointer(t *testing.T) {
	v := validation.New()

	err := v.Validate(request{})
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, map[string]string{"concept": "is required"}, de.Details)
}
