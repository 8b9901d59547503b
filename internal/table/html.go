package table

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// ParseHTMLTables extracts every <table> in the document, in document order. The first row
// of each table is its header. Cells spanning several columns or rows are repeated into each
// position they cover. Tables nested in a cell are returned as separate tables and do not
// contribute text to the outer cell.
//
// The HTML parser is lenient; ErrParse is only returned when the document cannot be read or
// decoded at all.
func ParseHTMLTables(r io.Reader) ([]*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(ErrParse, "html: read: %v", err)
	}

	// Valid UTF-8 is taken as is; otherwise trust the BOM or <meta charset>, falling back to
	// windows-1252 like browsers do.
	if !utf8.Valid(raw) {
		enc, name, _ := charset.DetermineEncoding(raw, "")
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, eris.Wrapf(ErrParse, "html: decode %s: %v", name, err)
		}
		raw = decoded
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrapf(ErrParse, "html: parse: %v", err)
	}

	var tables []*Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, buildTable(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tables, nil
}

// LoadHTMLTable returns the table at index. A document without any table yields (nil, nil):
// absence is a reportable outcome, not an error. An index past the last table is an error.
func LoadHTMLTable(r io.Reader, index int) (*Table, error) {
	tables, err := ParseHTMLTables(r)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}
	if index < 0 || index >= len(tables) {
		return nil, eris.Errorf("html: table index %d out of range (found %d tables)", index, len(tables))
	}
	return tables[index], nil
}

type cell struct {
	text    string
	colspan int
	rowspan int
}

type span struct {
	text string
	left int
}

func buildTable(tbl *html.Node) *Table {
	var grid [][]string
	pending := map[int]span{}

	for _, tr := range tableRows(tbl) {
		cells := rowCells(tr)
		var out []string
		col, ci := 0, 0
		for {
			if p, ok := pending[col]; ok {
				out = append(out, p.text)
				if p.left--; p.left == 0 {
					delete(pending, col)
				} else {
					pending[col] = p
				}
				col++
				continue
			}
			if ci < len(cells) {
				c := cells[ci]
				ci++
				for k := 0; k < c.colspan; k++ {
					out = append(out, c.text)
					if c.rowspan > 1 {
						pending[col] = span{text: c.text, left: c.rowspan - 1}
					}
					col++
				}
				continue
			}
			if !pendingAfter(pending, col) {
				break
			}
			out = append(out, "")
			col++
		}
		grid = append(grid, out)
	}

	if len(grid) == 0 {
		return &Table{}
	}
	width := 0
	for _, r := range grid {
		width = max(width, len(r))
	}
	header := fit(grid[0], width)
	for i, h := range header {
		header[i] = CleanCell(h)
	}
	return New(header, grid[1:])
}

func pendingAfter(pending map[int]span, col int) bool {
	for k := range pending {
		if k > col {
			return true
		}
	}
	return false
}

// tableRows collects the <tr> elements that belong to tbl itself, looking through
// thead/tbody/tfoot but not into nested tables.
func tableRows(tbl *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(tbl)
	return rows
}

func rowCells(tr *html.Node) []cell {
	var cells []cell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cells = append(cells, cell{
			text:    collapse(textOf(c)),
			colspan: spanAttr(c, "colspan"),
			rowspan: spanAttr(c, "rowspan"),
		})
	}
	return cells
}

func spanAttr(n *html.Node, key string) int {
	for _, a := range n.Attr {
		if a.Key != key {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || v < 1 {
			return 1
		}
		return min(v, 1000)
	}
	return 1
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Table, atom.Style, atom.Script:
				return
			case atom.Br:
				sb.WriteByte(' ')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
