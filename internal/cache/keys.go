package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

const (
	NamespaceConcept = "concept"
	NamespaceImage   = "image"
)

// ConceptKey builds concept:<genre>:<era>. Both filters come from closed,
// validated enumerations that never contain ':'.
func ConceptKey(genreFilter, eraFilter string) string {
	return NamespaceConcept + ":" + genreFilter + ":" + eraFilter
}

type imageKeyInput struct {
	Concept        any    `json:"concept"`
	VisualElements string `json:"visualElements"`
}

// ImageKey builds image:<sha256 hex> over the JSON serialization of the
// concept and the visual elements text, so every input that shapes the
// poster shapes the key.
func ImageKey(concept any, visualElements string) (string, error) {
	body, err := json.Marshal(imageKeyInput{Concept: concept, VisualElements: visualElements})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return NamespaceImage + ":" + hex.EncodeToString(sum[:]), nil
}
