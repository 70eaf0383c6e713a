package content

import (
	"github.com/imobireport/newsroom-backend/internal/diag"
	"github.com/imobireport/newsroom-backend/internal/domain"
)

// PlaceholderError marks records synthesized for positions the extractor
// returned nothing for.
const PlaceholderError = "placeholder"

// Align reconciles extractor output against the link list. The result has
// exactly one record per link: records with a valid 1-based position land in
// their slot, positions outside [1, len(links)] are discarded, and empty
// slots get a failed placeholder so later stages still see every index.
// Position and URL on every kept record are forced from the link list, even
// when the extractor disagreed.
func Align(links []string, records []domain.ContentRecord, rec *diag.Recorder) []domain.ContentRecord {
	n := len(links)
	aligned := make([]*domain.ContentRecord, n)

	for i := range records {
		r := records[i]
		if r.Position < 1 || r.Position > n {
			if rec != nil {
				rec.Record(diag.StageAlign, []int{r.Position}, "registro com posição fora da lista descartado (url=%s)", r.URL)
			}
			continue
		}
		aligned[r.Position-1] = &r
	}

	out := make([]domain.ContentRecord, n)
	for i := 0; i < n; i++ {
		if aligned[i] == nil {
			out[i] = domain.ContentRecord{
				Position: i + 1,
				URL:      links[i],
				Success:  false,
				Error:    PlaceholderError,
			}
			if rec != nil {
				rec.Record(diag.StageAlign, []int{i + 1}, "sem registro do extrator, placeholder inserido")
			}
			continue
		}
		r := *aligned[i]
		r.Position = i + 1
		r.URL = links[i]
		out[i] = r
	}
	return out
}

// ByPosition indexes aligned records by their 1-based position.
func ByPosition(records []domain.ContentRecord) map[int]domain.ContentRecord {
	m := make(map[int]domain.ContentRecord, len(records))
	for _, r := range records {
		m[r.Position] = r
	}
	return m
}
