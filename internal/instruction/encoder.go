package instruction

import (
	"fmt"
	"strings"

	"github.com/imobireport/newsroom-backend/internal/domain"
)

var ordinalWords = []string{
	"primeira", "segunda", "terceira", "quarta", "quinta",
	"sexta", "sétima", "oitava", "nona", "décima",
}

// Encode flattens a structured newsletter layout into the flat link list and
// the instruction text the parser understands. Link positions are assigned
// sequentially in layout order: lead first, then each section's notes, then
// headlines, then agenda. Encode(s) followed by Parse yields an equivalent
// plan against the returned link order.
func Encode(s domain.NewsletterStructure) ([]string, string) {
	var links []string
	var parts []string
	pos := 0

	take := func(urls []string) []int {
		idxs := make([]int, 0, len(urls))
		for _, u := range urls {
			links = append(links, u)
			pos++
			idxs = append(idxs, pos)
		}
		return idxs
	}

	if n := len(take(s.LeadLinks)); n > 0 {
		if n == 2 {
			parts = append(parts, "A matéria de abertura deve usar os dois primeiros links.")
		} else {
			parts = append(parts, fmt.Sprintf("A matéria de abertura deve usar os primeiros %d links.", n))
		}
	}

	for _, sec := range s.Sections {
		// Unnamed sections are skipped whole: a sentence without a block
		// name never parses back, and its links would become indices no
		// block may cite.
		if strings.TrimSpace(sec.Name) == "" {
			continue
		}
		var sentences []string
		sentences = append(sentences, fmt.Sprintf("O bloco %s deve ter %d notas.", sec.Name, len(sec.Notes)))

		for i, noteURLs := range sec.Notes {
			idxs := take(noteURLs)
			if len(idxs) == 0 {
				continue
			}
			if len(idxs) == 1 {
				sentences = append(sentences, fmt.Sprintf("A %s nota deve usar o link %d.", ordinalWord(i), idxs[0]))
			} else {
				sentences = append(sentences, fmt.Sprintf("A %s nota deve usar os links %s.", ordinalWord(i), joinIndexes(idxs)))
			}
		}

		if idxs := take(sec.Headlines); len(idxs) > 0 {
			if len(idxs) == 1 {
				sentences = append(sentences, fmt.Sprintf("Ao final do bloco, escreva a manchete do link %d.", idxs[0]))
			} else {
				sentences = append(sentences, fmt.Sprintf("Ao final do bloco, escreva as manchetes dos links %s.", joinPlain(idxs)))
			}
		}
		parts = append(parts, strings.Join(sentences, " "))
	}

	if idxs := take(s.Agenda); len(idxs) > 0 {
		if len(idxs) == 1 {
			parts = append(parts, fmt.Sprintf("O bloco Agenda deve usar o link %d.", idxs[0]))
		} else {
			parts = append(parts, fmt.Sprintf("O bloco Agenda deve usar os links %s.", joinPlain(idxs)))
		}
	}

	return links, strings.Join(parts, " ")
}

// LeadOverrideSentence renders the imperative lead sentence emitted when an
// editor pins the opening story to explicit indices. It parses back with
// precedence over the base lead phrasing.
func LeadOverrideSentence(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	if len(indices) == 1 {
		return fmt.Sprintf("A Matéria de Abertura deve OBRIGATORIAMENTE usar o link %d.", indices[0])
	}
	return fmt.Sprintf("A Matéria de Abertura deve OBRIGATORIAMENTE usar os links %s.", joinIndexes(indices))
}

// ordinalWord maps a zero-based note position to its instruction word;
// positions past the tenth fall back to the numeric form.
func ordinalWord(i int) string {
	if i < len(ordinalWords) {
		return ordinalWords[i]
	}
	return fmt.Sprintf("%dª", i+1)
}

// joinIndexes renders "3", "4 e 5" or "4, 5 e 6".
func joinIndexes(idxs []int) string {
	switch len(idxs) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%d", idxs[0])
	}
	head := make([]string, len(idxs)-1)
	for i, v := range idxs[:len(idxs)-1] {
		head[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%s e %d", strings.Join(head, ", "), idxs[len(idxs)-1])
}

// joinPlain renders "8, 9, 10".
func joinPlain(idxs []int) string {
	out := make([]string, len(idxs))
	for i, v := range idxs {
		out[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(out, ", ")
}
