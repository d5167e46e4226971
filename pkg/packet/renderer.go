// Package packet renders the filing packet PDF: cover sheet, evidence index
// and affidavit narrative.
package packet

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	DocumentTitle    = "VisaForge – USCIS Packet"
	EmptyAffidavit   = "(No affidavit content)"
	maxDetailPairs   = 40
	maxDetailLength  = 110
	pageHeight       = 792.0
	titleBaseline    = 52.0
	bodyTop          = 82.0
	bottomLimit      = pageHeight - 60
	marginLeft       = 50.0
	indentLeft       = 60.0
	lineStep         = 14.0
	coverLineStep    = 16.0
	evidenceItemStep = 6.0
)

// EvidenceEntry is one checklist item joined with the user's upload, if any.
type EvidenceEntry struct {
	Title     string
	Required  bool
	Present   bool
	Complete  bool
	InEnglish *bool
	FileNames []string
	Notes     string
}

func (e EvidenceEntry) status() string {
	switch {
	case e.Complete:
		return "Complete"
	case e.Present:
		return "In progress"
	}
	return "Missing"
}

type Document struct {
	PathTitle   string
	CoreForms   []string
	GeneratedAt time.Time
	Inputs      map[string]interface{}
	Evidence    []EvidenceEntry
	Affidavit   string
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *writer) page(title string) {
	w.pdf.AddPage()
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.Text(marginLeft, titleBaseline, w.tr(title))
	w.pdf.SetFont("Helvetica", "", 12)
	w.y = bodyTop
}

func (w *writer) line(x float64, s string, step float64) {
	w.pdf.Text(x, w.y, w.tr(s))
	w.y += step
}

// breakIfFull starts a continuation page once the cursor passes the bottom margin.
func (w *writer) breakIfFull(title string) {
	if w.y > bottomLimit {
		w.page(title)
	}
}

// Render lays the document out on US Letter pages and returns the PDF bytes.
func Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(DocumentTitle, true)
	pdf.SetCreator("VisaForge", true)

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	w.page(DocumentTitle)
	w.line(marginLeft, "Path: "+doc.PathTitle, coverLineStep)
	w.line(marginLeft, "Core Forms: "+strings.Join(doc.CoreForms, ", "), coverLineStep)
	w.line(marginLeft, "Generated: "+doc.GeneratedAt.UTC().Format(time.RFC1123), coverLineStep)

	w.y += 10
	pdf.SetFont("Helvetica", "B", 12)
	w.line(marginLeft, "Applicant Details", coverLineStep)
	pdf.SetFont("Helvetica", "", 12)
	for _, pair := range detailPairs(doc.Inputs) {
		w.line(marginLeft, truncate(pair, maxDetailLength), lineStep)
		w.breakIfFull("Applicant Details (cont.)")
	}

	w.page("Evidence Index")
	for _, ev := range doc.Evidence {
		tag := "[Recommended]"
		if ev.Required {
			tag = "[Required]"
		}
		w.line(marginLeft, truncate(fmt.Sprintf("%s %s - %s", tag, ev.Title, ev.status()), WrapWidth), lineStep)

		if ev.InEnglish != nil && !*ev.InEnglish {
			w.line(indentLeft, "• Needs certified translation", lineStep)
		}
		if len(ev.FileNames) > 0 {
			w.line(indentLeft, "• Files: "+truncate(strings.Join(ev.FileNames, ", "), WrapWidth), lineStep)
		}
		if ev.Notes != "" {
			for _, ln := range Wrap("• Notes: "+ev.Notes, WrapWidth) {
				w.line(indentLeft, ln, lineStep)
				w.breakIfFull("Evidence Index (cont.)")
			}
		}
		w.y += evidenceItemStep
		w.breakIfFull("Evidence Index (cont.)")
	}

	w.page("Affidavit & Narratives")
	affidavit := doc.Affidavit
	if strings.TrimSpace(affidavit) == "" {
		affidavit = EmptyAffidavit
	}
	for _, ln := range Wrap(affidavit, WrapWidth) {
		w.line(marginLeft, ln, lineStep)
		w.breakIfFull("Affidavit (cont.)")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render packet: %w", err)
	}
	return buf.Bytes(), nil
}

// detailPairs formats scalar, non-empty inputs as "key: value", sorted by key.
func detailPairs(inputs map[string]interface{}) []string {
	keys := make([]string, 0, len(inputs))
	for k, v := range inputs {
		switch val := v.(type) {
		case nil, map[string]interface{}, []interface{}:
			continue
		case string:
			if val == "" {
				continue
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxDetailPairs {
		keys = keys[:maxDetailPairs]
	}

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", k, inputs[k]))
	}
	return pairs
}
