// Package instruction converts between the editor-facing instruction text
// and the structured generation plan. Parse and Encode are duals: Encode
// emits exactly the sentence shapes Parse recognizes, with index numbers
// matching the flat link positions it assigns.
package instruction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/imobireport/newsroom-backend/internal/domain"
)

// Ordinal words the UI emits for note numbers, accent variants included.
var ordinals = map[string]int{
	"primeira": 1, "segunda": 2, "terceira": 3, "quarta": 4, "quinta": 5,
	"sexta": 6, "sétima": 7, "setima": 7, "oitava": 8, "nona": 9,
	"décima": 10, "decima": 10,
}

var (
	reSentenceSplit = regexp.MustCompile(`[.!?]\s+`)
	reIndexListSep  = regexp.MustCompile(`(?i)\se\s`)

	// Lead rules, in priority order. The explicit override sentences the UI
	// writes when the editor picks indices by hand win over the base phrasing.
	reLeadSingleOverride = regexp.MustCompile(`(?i)Matéria de Abertura.*?OBRIGATORIAMENTE.*?usar o link (\d+)`)
	reLeadMultiOverride  = regexp.MustCompile(`(?i)Matéria de Abertura.*?OBRIGATORIAMENTE.*?usar os links ([\d,\se]+)\.`)
	reLeadFirstTwo       = regexp.MustCompile(`(?i)matéria de abertura.*?dois primeiros links`)
	reLeadFirstN         = regexp.MustCompile(`(?i)matéria de abertura.*?os primeiros (\d+) links`)

	reSectionOpen   = regexp.MustCompile(`(?i)O bloco\s+(.+?)\s+deve ter\s+(\d+)\s+notas`)
	reHeadlines     = regexp.MustCompile(`(?i)Ao final do bloco.*?manchetes?\s+dos?\s+links?\s+([^.!]+)`)
	reNoteOrdinal1  = regexp.MustCompile(`(?i)A\s+([A-Za-zçáéíóúâêôãõàäëïöü\-]+)\s+nota\s+deve usar o link\s+(\d+)`)
	reNoteOrdinalN  = regexp.MustCompile(`(?i)A\s+([A-Za-zçáéíóúâêôãõàäëïöü\-]+)\s+nota\s+deve usar os links\s+([^.!]+)`)
	reNoteNumberedN = regexp.MustCompile(`(?i)A\s+nota\s+(\d+)\s+deve usar os links\s+([^.!]+)`)
	reNoteNumbered1 = regexp.MustCompile(`(?i)A\s+nota\s+(\d+)\s+deve usar o link\s+(\d+)`)

	reAgendaSingle = regexp.MustCompile(`(?i)O bloco\s+Agenda\s+deve usar o link\s+(\d+)`)
	reAgendaMulti  = regexp.MustCompile(`(?i)O bloco\s+Agenda\s+deve usar os links\s+([^.!]+)`)
)

// Parse converts one free-text instruction into a Plan. It is tolerant:
// unrecognized fragments are ignored and never cause an error, so the worst
// outcome of a malformed instruction is an empty or partial plan.
func Parse(text string) domain.Plan {
	t := normalize(text)
	if t == "" {
		return domain.Plan{}
	}
	return domain.Plan{
		Lead:     parseLead(t),
		Sections: parseSections(t),
		Agenda:   parseAgenda(t),
	}
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
}

func parseLead(t string) []int {
	if m := reLeadSingleOverride.FindStringSubmatch(t); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return []int{v}
		}
	}
	if m := reLeadMultiOverride.FindStringSubmatch(t); m != nil {
		return ParseIndexList(m[1])
	}
	if reLeadFirstTwo.MatchString(t) {
		return []int{1, 2}
	}
	if m := reLeadFirstN.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil
		}
		out := make([]int, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, i)
		}
		return out
	}
	return nil
}

func parseSections(t string) []domain.SectionRequirement {
	var sections []domain.SectionRequirement
	var current *domain.SectionRequirement

	for _, sent := range reSentenceSplit.Split(t, -1) {
		s := strings.TrimSpace(sent)
		if s == "" {
			continue
		}

		if m := reSectionOpen.FindStringSubmatch(s); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &domain.SectionRequirement{Name: strings.TrimSpace(m[1])}
			continue
		}
		if current == nil {
			continue
		}

		if m := reHeadlines.FindStringSubmatch(s); m != nil {
			current.Headlines = ParseIndexList(m[1])
			continue
		}
		if m := reNoteOrdinal1.FindStringSubmatch(s); m != nil {
			if idx, err := strconv.Atoi(m[2]); err == nil {
				current.Notes = append(current.Notes, domain.NoteRequirement{
					NoteNumber: noteNumberFor(m[1], current.Notes),
					Links:      []int{idx},
				})
			}
			continue
		}
		if m := reNoteOrdinalN.FindStringSubmatch(s); m != nil {
			current.Notes = append(current.Notes, domain.NoteRequirement{
				NoteNumber: noteNumberFor(m[1], current.Notes),
				Links:      ParseIndexList(m[2]),
			})
			continue
		}
		if m := reNoteNumberedN.FindStringSubmatch(s); m != nil {
			if nn, err := strconv.Atoi(m[1]); err == nil {
				current.Notes = append(current.Notes, domain.NoteRequirement{
					NoteNumber: nn,
					Links:      ParseIndexList(m[2]),
				})
			}
			continue
		}
		if m := reNoteNumbered1.FindStringSubmatch(s); m != nil {
			nn, err1 := strconv.Atoi(m[1])
			idx, err2 := strconv.Atoi(m[2])
			if err1 == nil && err2 == nil {
				current.Notes = append(current.Notes, domain.NoteRequirement{
					NoteNumber: nn,
					Links:      []int{idx},
				})
			}
			continue
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	// Repeated note numbers coexist; the stable sort keeps their textual
	// order among equals.
	for i := range sections {
		notes := sections[i].Notes
		sort.SliceStable(notes, func(a, b int) bool {
			return notes[a].NoteNumber < notes[b].NoteNumber
		})
	}
	return sections
}

// noteNumberFor resolves an ordinal word; an unrecognized word falls back to
// one past the notes already collected for the section.
func noteNumberFor(word string, existing []domain.NoteRequirement) int {
	if n, ok := ordinals[strings.ToLower(strings.TrimSpace(word))]; ok {
		return n
	}
	return len(existing) + 1
}

func parseAgenda(t string) []int {
	if m := reAgendaSingle.FindStringSubmatch(t); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return []int{v}
		}
	}
	if m := reAgendaMulti.FindStringSubmatch(t); m != nil {
		return ParseIndexList(m[1])
	}
	return nil
}

// ParseIndexList tokenizes a span like "1, 2 e 3" into [1 2 3]: the word
// "e" becomes a comma, only all-digit tokens survive, duplicates are
// dropped keeping first-seen order.
func ParseIndexList(span string) []int {
	span = strings.TrimSpace(span)
	if span == "" {
		return nil
	}
	normalized := reIndexListSep.ReplaceAllString(span, ",")
	var out []int
	seen := map[int]bool{}
	for _, part := range strings.Split(normalized, ",") {
		p := strings.TrimSpace(part)
		if p == "" || !allDigits(p) {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
