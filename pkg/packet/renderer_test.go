package packet

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/pdf"
)

func pageCount(t *testing.T, b []byte) int {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	return r.NumPage()
}

func sampleDocument() Document {
	no := false
	return Document{
		PathTitle:   "Marriage-based Green Card",
		CoreForms:   []string{"I-130", "I-130A", "I-485"},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Inputs: map[string]interface{}{
			"petitionerName":  "Ana Souza",
			"beneficiaryName": "Rui Souza",
			"marriageDate":    "2024-05-10",
			"annualIncome":    float64(85000),
			"nested":          map[string]interface{}{"skip": true},
			"blank":           "",
		},
		Evidence: []EvidenceEntry{
			{Title: "Marriage certificate", Required: true, Present: true, Complete: true, FileNames: []string{"cert.pdf"}},
			{Title: "Birth certificates", Required: true, Present: true, InEnglish: &no, Notes: "Portuguese originals – translation ordered"},
			{Title: "Joint lease", Required: false},
		},
		Affidavit: "We met in Lisbon in 2021 and married in 2024.",
	}
}

func TestRenderProducesThreeSections(t *testing.T) {
	b, err := Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.Equal(t, 3, pageCount(t, b))
}

func TestRenderEmptyAffidavit(t *testing.T) {
	doc := sampleDocument()
	doc.Affidavit = "  "
	b, err := Render(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, pageCount(t, b))
}

func TestRenderPaginatesLongSections(t *testing.T) {
	doc := sampleDocument()
	doc.Evidence = nil
	for i := 0; i < 60; i++ {
		doc.Evidence = append(doc.Evidence, EvidenceEntry{
			Title:     fmt.Sprintf("Item %d", i),
			Required:  i%2 == 0,
			Present:   true,
			FileNames: []string{"a.pdf", "b.pdf"},
		})
	}
	doc.Affidavit = strings.Repeat("We share a lease, bank accounts and a dog named Biscuit. ", 200)

	b, err := Render(doc)
	require.NoError(t, err)
	assert.Greater(t, pageCount(t, b), 5)
}

func TestDetailPairsSkipsNonScalarsAndSorts(t *testing.T) {
	pairs := detailPairs(sampleDocument().Inputs)
	assert.Equal(t, []string{
		"annualIncome: 85000",
		"beneficiaryName: Rui Souza",
		"marriageDate: 2024-05-10",
		"petitionerName: Ana Souza",
	}, pairs)
}

func TestDetailPairsCapsCount(t *testing.T) {
	inputs := map[string]interface{}{}
	for i := 0; i < 55; i++ {
		inputs[fmt.Sprintf("field%02d", i)] = "v"
	}
	assert.Len(t, detailPairs(inputs), maxDetailPairs)
}

func TestEvidenceStatus(t *testing.T) {
	assert.Equal(t, "Complete", EvidenceEntry{Present: true, Complete: true}.status())
	assert.Equal(t, "In progress", EvidenceEntry{Present: true}.status())
	assert.Equal(t, "Missing", EvidenceEntry{}.status())
}
