package webref

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Head:     true,
	atom.Nav:      true,
	atom.Footer:   true,
}

// ExtractText returns the page title and its visible text with whitespace
// collapsed.
func ExtractText(r io.Reader) (string, string, error) {
	z := html.NewTokenizer(r)

	var (
		title   strings.Builder
		body    []string
		depth   int
		inTitle bool
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", "", err
			}
			return collapse(title.String()), strings.Join(body, " "), nil

		case html.StartTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Title {
				inTitle = true
			}
			if skipped[tok.DataAtom] {
				depth++
			}

		case html.EndTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Title {
				inTitle = false
			}
			if skipped[tok.DataAtom] && depth > 0 {
				depth--
			}

		case html.TextToken:
			text := string(z.Text())
			if inTitle {
				title.WriteString(text)
				continue
			}
			if depth > 0 {
				continue
			}
			if t := collapse(text); t != "" {
				body = append(body, t)
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
