package extractor

import (
	"net/url"
	"strings"
)

// Outlets the newsroom cites most, mapped to their editorial names.
var knownSources = map[string]string{
	"valor.globo.com":    "Valor Econômico",
	"oglobo.globo.com":   "O Globo",
	"g1.globo.com":       "G1",
	"imobireport.com.br": "Imobi Report",
	"estadao.com.br":     "Estadão",
	"folha.uol.com.br":   "Folha de S.Paulo",
	"exame.com":          "Exame",
	"infomoney.com.br":   "InfoMoney",
	"cnnbrasil.com.br":   "CNN Brasil",
}

// Domain extracts the lowercased host of a URL, dropping a www prefix.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	d := strings.ToLower(u.Host)
	if h, _, ok := strings.Cut(d, ":"); ok {
		d = h
	}
	return strings.TrimPrefix(d, "www.")
}

// PrettySource maps a URL to the outlet name used in source citations.
// Unknown domains fall back to the second-level label in title case.
func PrettySource(raw string) string {
	d := Domain(raw)
	if name, ok := knownSources[d]; ok {
		return name
	}
	parts := strings.Split(d, ".")
	candidate := parts[0]
	if len(parts) >= 2 {
		candidate = parts[len(parts)-2]
	}
	words := strings.Fields(strings.ReplaceAll(candidate, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
