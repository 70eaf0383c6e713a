package instruction

import (
	"reflect"
	"testing"

	"github.com/imobireport/newsroom-backend/internal/domain"
)

func TestParseLeadFirstTwo(t *testing.T) {
	p := Parse("A matéria de abertura deve usar os dois primeiros links.")
	if !reflect.DeepEqual(p.Lead, []int{1, 2}) {
		t.Fatalf("lead = %#v", p.Lead)
	}
}

func TestParseLeadFirstN(t *testing.T) {
	p := Parse("A matéria de abertura deve usar os primeiros 3 links.")
	if !reflect.DeepEqual(p.Lead, []int{1, 2, 3}) {
		t.Fatalf("lead = %#v", p.Lead)
	}
}

func TestParseLeadOverrideWinsOverBasePhrasing(t *testing.T) {
	text := "A matéria de abertura deve usar os dois primeiros links. " +
		"A Matéria de Abertura deve OBRIGATORIAMENTE usar o link 7."
	p := Parse(text)
	if !reflect.DeepEqual(p.Lead, []int{7}) {
		t.Fatalf("lead = %#v", p.Lead)
	}
}

func TestParseLeadMultiOverride(t *testing.T) {
	p := Parse("A Matéria de Abertura deve OBRIGATORIAMENTE usar os links 4, 5 e 6.")
	if !reflect.DeepEqual(p.Lead, []int{4, 5, 6}) {
		t.Fatalf("lead = %#v", p.Lead)
	}
}

func TestParseSectionNotesAndHeadlines(t *testing.T) {
	text := "O bloco Lançamentos deve ter 2 notas. " +
		"A primeira nota deve usar o link 3. " +
		"A segunda nota deve usar os links 4 e 5. " +
		"Ao final do bloco, escreva as manchetes dos links 6, 7."
	p := Parse(text)
	if len(p.Sections) != 1 {
		t.Fatalf("sections = %#v", p.Sections)
	}
	sec := p.Sections[0]
	if sec.Name != "Lançamentos" {
		t.Fatalf("name = %q", sec.Name)
	}
	want := []domain.NoteRequirement{
		{NoteNumber: 1, Links: []int{3}},
		{NoteNumber: 2, Links: []int{4, 5}},
	}
	if !reflect.DeepEqual(sec.Notes, want) {
		t.Fatalf("notes = %#v", sec.Notes)
	}
	if !reflect.DeepEqual(sec.Headlines, []int{6, 7}) {
		t.Fatalf("headlines = %#v", sec.Headlines)
	}
}

func TestParseNumericNoteForms(t *testing.T) {
	text := "O bloco Mercado deve ter 2 notas. " +
		"A nota 2 deve usar os links 8 e 9. " +
		"A nota 1 deve usar o link 7."
	p := Parse(text)
	if len(p.Sections) != 1 {
		t.Fatalf("sections = %#v", p.Sections)
	}
	want := []domain.NoteRequirement{
		{NoteNumber: 1, Links: []int{7}},
		{NoteNumber: 2, Links: []int{8, 9}},
	}
	if !reflect.DeepEqual(p.Sections[0].Notes, want) {
		t.Fatalf("notes = %#v", p.Sections[0].Notes)
	}
}

func TestParseAccentVariantOrdinals(t *testing.T) {
	text := "O bloco Regional deve ter 7 notas. " +
		"A setima nota deve usar o link 12. " +
		"A décima nota deve usar o link 14."
	p := Parse(text)
	notes := p.Sections[0].Notes
	want := []domain.NoteRequirement{
		{NoteNumber: 7, Links: []int{12}},
		{NoteNumber: 10, Links: []int{14}},
	}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("notes = %#v", notes)
	}
}

func TestParseUnknownOrdinalFallsBackToSequence(t *testing.T) {
	text := "O bloco Extra deve ter 2 notas. " +
		"A primeira nota deve usar o link 1. " +
		"A penúltima nota deve usar o link 2."
	p := Parse(text)
	notes := p.Sections[0].Notes
	want := []domain.NoteRequirement{
		{NoteNumber: 1, Links: []int{1}},
		{NoteNumber: 2, Links: []int{2}},
	}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("notes = %#v", notes)
	}
}

func TestParseRepeatedNoteNumbersCoexist(t *testing.T) {
	text := "O bloco Cidades deve ter 2 notas. " +
		"A nota 1 deve usar o link 3. " +
		"A nota 1 deve usar o link 4."
	p := Parse(text)
	notes := p.Sections[0].Notes
	want := []domain.NoteRequirement{
		{NoteNumber: 1, Links: []int{3}},
		{NoteNumber: 1, Links: []int{4}},
	}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("notes = %#v", notes)
	}
}

func TestParseMultipleSections(t *testing.T) {
	text := "O bloco Economia deve ter 1 notas. " +
		"A primeira nota deve usar o link 3. " +
		"O bloco Política deve ter 1 notas. " +
		"A primeira nota deve usar o link 4."
	p := Parse(text)
	if len(p.Sections) != 2 {
		t.Fatalf("sections = %#v", p.Sections)
	}
	if p.Sections[0].Name != "Economia" || p.Sections[1].Name != "Política" {
		t.Fatalf("names = %q, %q", p.Sections[0].Name, p.Sections[1].Name)
	}
	if !reflect.DeepEqual(p.Sections[1].Notes[0].Links, []int{4}) {
		t.Fatalf("second section notes = %#v", p.Sections[1].Notes)
	}
}

func TestParseAgenda(t *testing.T) {
	p := Parse("O bloco Agenda deve usar os links 11 e 12.")
	if !reflect.DeepEqual(p.Agenda, []int{11, 12}) {
		t.Fatalf("agenda = %#v", p.Agenda)
	}
	p = Parse("O bloco Agenda deve usar o link 11.")
	if !reflect.DeepEqual(p.Agenda, []int{11}) {
		t.Fatalf("agenda = %#v", p.Agenda)
	}
}

func TestParseNoteSentencesOutsideSectionIgnored(t *testing.T) {
	p := Parse("A primeira nota deve usar o link 3.")
	if len(p.Sections) != 0 {
		t.Fatalf("sections = %#v", p.Sections)
	}
}

func TestParseEmptyAndNoise(t *testing.T) {
	if p := Parse(""); len(p.Lead) != 0 || len(p.Sections) != 0 || len(p.Agenda) != 0 {
		t.Fatalf("plan = %#v", p)
	}
	if p := Parse("Bom dia! Capriche no texto de hoje."); len(p.Sections) != 0 {
		t.Fatalf("plan = %#v", p)
	}
}

func TestParseIndexList(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"1, 2 e 3", []int{1, 2, 3}},
		{"4 e 5", []int{4, 5}},
		{"7", []int{7}},
		{"3, 3 e 4", []int{3, 4}},
		{"2, abc, 5", []int{2, 5}},
		{"", nil},
	}
	for _, c := range cases {
		if got := ParseIndexList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ParseIndexList(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}
