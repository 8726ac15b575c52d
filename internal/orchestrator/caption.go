package orchestrator

import (
	"bytes"
	"context"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"

	"posterforge/internal/catalog"
	domainerrors "posterforge/internal/errors"
	"posterforge/internal/random"
)

const (
	maxSynopsis     = 120
	maxCaptionCast  = 2
	defaultSynopsis = "A groundbreaking film that will leave you on the edge of your seat."
)

const captionSource = `🎬 New AI-generated movie poster alert! ✨

📽️ "{{ .Title }}" ({{ .Decade | default "Unknown Era" }})
🎭 {{ .Tagline | default "An unforgettable cinematic experience" }}

{{ .Synopsis }}

{{ with .Cast }}⭐ Starring: {{ join ", " . }}
{{ end }}{{ with .Director }}🎥 Directed by: {{ . }}
{{ end }}
🤖 Created with AI • What movie should I generate next?

{{ join " " .Hashtags }}`

var captionTmpl = template.Must(
	template.New("caption").Funcs(sprig.TxtFuncMap()).Parse(captionSource),
)

type captionData struct {
	Title    string
	Decade   string
	Tagline  string
	Synopsis string
	Cast     []string
	Director string
	Hashtags []string
}

// GenerateCaption builds a social media caption for concept. A title is required.
func (o *Orchestrator) GenerateCaption(ctx context.Context, concept *Concept) (*CaptionResult, error) {
	return guard(ctx, opCaption, func() (*CaptionResult, error) {
		if concept == nil || concept.Title == "" {
			return nil, domainerrors.Validation("concept with title is required")
		}
		caption, err := renderCaption(*concept, o.rnd)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to render caption")
		}
		return &CaptionResult{Success: true, Caption: caption}, nil
	})
}

func renderCaption(c Concept, src random.Source) (string, error) {
	synopsis := c.Synopsis
	if synopsis == "" {
		synopsis = defaultSynopsis
	}
	if r := []rune(synopsis); len(r) > maxSynopsis {
		synopsis = string(r[:maxSynopsis]) + "..."
	}

	cast := c.Cast
	if len(cast) > maxCaptionCast {
		cast = cast[:maxCaptionCast]
	}

	var buf bytes.Buffer
	err := captionTmpl.Execute(&buf, captionData{
		Title:    c.Title,
		Decade:   c.Decade,
		Tagline:  c.Tagline,
		Synopsis: synopsis,
		Cast:     cast,
		Director: c.Director,
		Hashtags: hashtags(c, src),
	})
	return buf.String(), err
}

// hashtags shuffles the concept's hashtag pool and keeps at most
// catalog.MaxHashtags of them.
func hashtags(c Concept, src random.Source) []string {
	tags := catalog.Hashtags(c.Genre, c.Decade)
	random.Shuffle(src, tags)
	if len(tags) > catalog.MaxHashtags {
		tags = tags[:catalog.MaxHashtags]
	}
	return tags
}
