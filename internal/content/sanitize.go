// Package content keeps the flat link list and the extracted records in
// lockstep. Every function here preserves list length and order, because the
// instruction plan addresses sources by 1-based position and a shifted index
// silently rewires the whole newsletter.
package content

import (
	"strings"

	"github.com/imobireport/newsroom-backend/internal/diag"
)

// SanitizeLinks trims each link without reordering, removing or deduplicating
// anything. Blank entries stay as empty strings to hold their position, and
// links missing an http scheme are kept as-is. Duplicate URLs are reported to
// the recorder with their positions but never dropped. The result always has
// the same length as the input, and running it twice changes nothing.
func SanitizeLinks(links []string, rec *diag.Recorder) []string {
	cleaned := make([]string, len(links))
	for i, raw := range links {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			if rec != nil {
				rec.Record(diag.StageSanitize, []int{i + 1}, "link sem esquema http, mantido para preservar o índice: %s", url)
			}
		}
		cleaned[i] = url
	}
	reportDuplicates(cleaned, rec)
	return cleaned
}

func reportDuplicates(links []string, rec *diag.Recorder) {
	if rec == nil {
		return
	}
	positions := map[string][]int{}
	var order []string
	for i, u := range links {
		if u == "" {
			continue
		}
		if _, ok := positions[u]; !ok {
			order = append(order, u)
		}
		positions[u] = append(positions[u], i+1)
	}
	for _, u := range order {
		if idxs := positions[u]; len(idxs) > 1 {
			rec.Record(diag.StageSanitize, idxs, "URL duplicada, posições preservadas: %s", u)
		}
	}
}
