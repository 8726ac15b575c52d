package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"

	"posterforge/internal/catalog"
	"posterforge/internal/random"
)

// GenreFilter constrains the genre of a generated concept.
type GenreFilter string

const (
	GenreAny    GenreFilter = "any"
	GenreHorror GenreFilter = "horror"
	GenreSciFi  GenreFilter = "sci-fi"
	GenreFusion GenreFilter = "fusion"
)

// EraAny lets the assembler choose the decade.
const EraAny = "any"

// ParseGenreFilter normalizes s; empty means any.
func ParseGenreFilter(s string) (GenreFilter, bool) {
	g := GenreFilter(strings.ToLower(strings.TrimSpace(s)))
	if g == "" {
		return GenreAny, true
	}
	switch g {
	case GenreAny, GenreHorror, GenreSciFi, GenreFusion:
		return g, true
	default:
		return g, false
	}
}

// ParseEraFilter normalizes s to "any" or a decade label; empty means any.
func ParseEraFilter(s string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(s))
	if e == "" || e == EraAny {
		return EraAny, true
	}
	d, ok := catalog.ParseDecade(e)
	return string(d), ok
}

// Label returns the canonical genre the model must use.
func (g GenreFilter) Label() string {
	switch g {
	case GenreHorror:
		return `"Horror"`
	case GenreSciFi:
		return `"Sci-Fi"`
	case GenreFusion:
		return "a creative fusion of Horror and Sci-Fi"
	default:
		return ""
	}
}

func (g GenreFilter) rule() string {
	if g == GenreAny {
		return "The genre MUST be 'Horror', 'Sci-Fi', or a creative fusion of both"
	}
	return "The genre MUST be " + g.Label()
}

// ConceptKeys are the fields the text model must return, in order.
var ConceptKeys = []string{
	"decade", "genre", "title", "tagline", "synopsis", "visual_elements", "cast", "director",
}

type exampleConcept struct {
	Decade         string   `json:"decade"`
	Genre          string   `json:"genre"`
	Title          string   `json:"title"`
	Tagline        string   `json:"tagline"`
	Synopsis       string   `json:"synopsis"`
	VisualElements string   `json:"visual_elements"`
	Cast           []string `json:"cast"`
	Director       string   `json:"director"`
}

var example = exampleConcept{
	Decade:         "1980s",
	Genre:          "Sci-Fi Horror",
	Title:          "Neon Parallax",
	Tagline:        "The city blinked, and forgot you existed.",
	Synopsis:       "A detective discovers reality glitches in a neon-soaked city where digital surveillance has merged with human consciousness.",
	VisualElements: "lone detective silhouette; rain-slicked neon streets; towering digital billboards; distant city lights",
	Cast:           []string{"Mira Reeves", "Dakota Chen", "Alexander Thorne"},
	Director:       "Cameron Reed Sullivan",
}

const instructionSource = `Return ONLY valid JSON with keys {{ range $i, $k := .Keys }}{{ if $i }},{{ end }}{{ quote $k }}{{ end }}.

STRICT RULES:
- The decade MUST be {{ quote .Decade }}
- {{ .GenreRule }}
- Title: short and striking (2-4 words max)
- "visual_elements": 1 focal subject + 2-3 concise scene elements
- Cast: array of 3-4 fictional actor names
- Director: one fictional director name
- Synopsis: 1-2 sentences max

EXAMPLE FORMAT (structure only; do NOT reuse its title, tagline, names, synopsis or imagery):
{{ toPrettyJson .Example }}

Return ONLY the JSON, no other text.`

var instructionTmpl = template.Must(
	template.New("concept-instruction").Funcs(sprig.TxtFuncMap()).Parse(instructionSource),
)

// Instruction is a rendered concept instruction together with the decade it pins.
type Instruction struct {
	Text   string
	Decade catalog.Decade
}

// ConceptInstruction renders the instruction for the text model. When era is
// "any" one of the eight decades is drawn from src.
func ConceptInstruction(genre GenreFilter, era string, src random.Source) (Instruction, error) {
	g, ok := ParseGenreFilter(string(genre))
	if !ok {
		return Instruction{}, fmt.Errorf("prompt: unknown genre filter %q", genre)
	}
	e, ok := ParseEraFilter(era)
	if !ok {
		return Instruction{}, fmt.Errorf("prompt: unknown era filter %q", era)
	}

	decade := catalog.Decade(e)
	if e == EraAny {
		decade = random.Pick(src, catalog.Decades)
	}

	var buf bytes.Buffer
	err := instructionTmpl.Execute(&buf, map[string]any{
		"Keys":      ConceptKeys,
		"Decade":    string(decade),
		"GenreRule": g.rule(),
		"Example":   example,
	})
	if err != nil {
		return Instruction{}, fmt.Errorf("prompt: render instruction: %w", err)
	}
	return Instruction{Text: buf.String(), Decade: decade}, nil
}
