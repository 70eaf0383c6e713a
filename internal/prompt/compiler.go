// Package prompt renders the constrained generation prompt. Each block of
// the plan carries an explicit allow-list of source indices and only the
// excerpts for those indices, so the model cannot blend material across
// notes.
package prompt

import (
	"fmt"
	"strings"

	"github.com/imobireport/newsroom-backend/internal/content"
	"github.com/imobireport/newsroom-backend/internal/diag"
	"github.com/imobireport/newsroom-backend/internal/domain"
)

const (
	// MaxCharsPerSource caps the excerpt length for one source block.
	MaxCharsPerSource = 2000
	// MaxStyleGuideChars caps the style guide summary embedded in the header.
	MaxStyleGuideChars = 1200
)

// SystemTone is the fixed editorial persona for every generation.
const SystemTone = "Você é editor sênior do mercado imobiliário. " +
	"Priorize indicadores e números sempre que existirem nas fontes; " +
	"quantifique variações (%, valores, moeda, período) e feche cada item com (Fonte X)."

// Compiler turns a plan plus aligned content records into the final prompt.
type Compiler struct {
	MaxCharsPerSource int
	rec               *diag.Recorder
}

func NewCompiler(rec *diag.Recorder) *Compiler {
	return &Compiler{MaxCharsPerSource: MaxCharsPerSource, rec: rec}
}

// Compile renders the prompt for one generation. Plan indices that have no
// aligned record are dropped from the block's allow-list and reported, never
// silently rendered as empty sources. A block whose indices all resolve to
// nothing is omitted entirely.
func (c *Compiler) Compile(plan domain.Plan, records []domain.ContentRecord, styleGuide string) string {
	byPos := content.ByPosition(records)

	var body []string

	if idxs := c.resolve(plan.Lead, byPos, "abertura"); len(idxs) > 0 {
		body = append(body, "\n[ABERTURA — USE APENAS ESTES ÍNDICES] "+joinInts(idxs))
		body = append(body, "Instrução: Escreva a matéria de abertura (tese + contexto + impactos + fechamento com fontes).")
		body = append(body, "Fontes permitidas (trechos):")
		for _, i := range idxs {
			body = append(body, c.sourceBlock(byPos[i]))
		}
	}

	for _, sec := range plan.Sections {
		name := sec.Name
		if name == "" {
			name = "Seção"
		}
		body = append(body, fmt.Sprintf("\n[SEÇÃO: %s]", name))
		for _, note := range sec.Notes {
			idxs := c.resolve(note.Links, byPos, fmt.Sprintf("nota %d do bloco %s", note.NoteNumber, name))
			if note.NoteNumber < 1 || len(idxs) == 0 {
				continue
			}
			body = append(body, fmt.Sprintf("[NOTA %d — USE APENAS ESTES ÍNDICES] %s", note.NoteNumber, joinInts(idxs)))
			body = append(body, "Fontes permitidas (trechos):")
			for _, i := range idxs {
				body = append(body, c.sourceBlock(byPos[i]))
			}
			body = append(body, "Instrução: Escreva 1–3 parágrafos (fato + implicação prática para o mercado), fechando com fontes.")
		}
		if idxs := c.resolve(sec.Headlines, byPos, fmt.Sprintf("manchetes do bloco %s", name)); len(idxs) > 0 {
			body = append(body, "[MANCHETES — USE APENAS ESTES ÍNDICES] "+joinInts(idxs))
			body = append(body, "Instrução: Liste manchetes telegráficas (1 linha cada), fechando com fonte entre parênteses.")
			body = append(body, "Fontes permitidas (trechos):")
			for _, i := range idxs {
				body = append(body, c.sourceBlock(byPos[i]))
			}
		}
	}

	if idxs := c.resolve(plan.Agenda, byPos, "agenda"); len(idxs) > 0 {
		body = append(body, "\n[AGENDA — USE APENAS ESTES ÍNDICES] "+joinInts(idxs))
		body = append(body, "Instrução: Escreva itens de agenda claros e objetivos, fechando com a fonte.")
		body = append(body, "Fontes permitidas (trechos):")
		for _, i := range idxs {
			body = append(body, c.sourceBlock(byPos[i]))
		}
	}

	return c.header(styleGuide) + "\n\n" + strings.Join(body, "\n") + "\n\n" + footer
}

// resolve keeps only the plan indices that have an aligned record, reporting
// the ones that do not.
func (c *Compiler) resolve(idxs []int, byPos map[int]domain.ContentRecord, block string) []int {
	var out []int
	for _, i := range idxs {
		if _, ok := byPos[i]; ok {
			out = append(out, i)
			continue
		}
		if c.rec != nil {
			c.rec.Record(diag.StageCompile, []int{i}, "índice sem fonte correspondente ignorado (%s)", block)
		}
	}
	return out
}

func (c *Compiler) header(styleGuide string) string {
	return strings.TrimSpace(fmt.Sprintf(`SISTEMA: %s

Você vai escrever uma newsletter nos moldes fornecidos, seguindo ESTRITAMENTE as fontes permitidas por bloco.
• Nunca use conteúdo de fontes não permitidas para aquele bloco/nota.
• Não misture fontes entre notas.
• Cite a(s) fonte(s) no final de cada nota entre parênteses, como (Fonte X), usando o veículo/nome do site da URL correspondente.
• Mantenha o tom e o estilo do guia de estilo (se houver).

GUIA DE ESTILO (resumo):
%s`, SystemTone, clip(styleGuide, MaxStyleGuideChars)))
}

const footer = `FORMATAÇÃO ESPERADA:
• Título da ABERTURA em forma de tese.
• ABERTURA: 4–8 parágrafos; feche com as fontes entre parênteses.
• Para cada SEÇÃO, escreva as NOTAS como parágrafos, e liste MANCHETES (se houver) como bullets curtos.
• Ao final de CADA nota/manchete, inclua as fontes usadas entre parênteses (ex.: (Valor, O Globo)).
• Não invente links. Use apenas os índices e trechos fornecidos para cada bloco.`

// sourceBlock renders one "[idx] título — url" header plus the clipped
// excerpt for that source.
func (c *Compiler) sourceBlock(r domain.ContentRecord) string {
	head := strings.TrimSpace(fmt.Sprintf("[%d] %s — %s", r.Position, r.Title, r.URL))
	return strings.TrimSpace(head + "\n" + excerpt(r.Text, c.MaxCharsPerSource))
}

// excerpt trims and flattens the text, clipping long sources with a visible
// truncation marker.
func excerpt(text string, limit int) string {
	t := strings.ReplaceAll(strings.TrimSpace(text), "\r", " ")
	if r := []rune(t); len(r) > limit {
		return string(r[:limit]) + " [...]"
	}
	return t
}

func clip(s string, limit int) string {
	if r := []rune(s); len(r) > limit {
		return string(r[:limit])
	}
	return s
}

func joinInts(idxs []int) string {
	parts := make([]string, len(idxs))
	for i, v := range idxs {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
