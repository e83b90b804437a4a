package markdown

import "strings"

// Row maps a normalized header key to the text of one body cell.
type Row map[string]string

// Table is the body rows of one Markdown table.
type Table []Row

// Tables extracts every top-level table under root, in document order.
//
// Header and body column counts are not required to agree: cells beyond the
// last header are dropped and missing cells are left out of the row.
func Tables(root *Block) []Table {
	var out []Table
	for _, table := range root.Each(KindTable) {
		out = append(out, extractTable(table))
	}
	return out
}

func extractTable(table *Block) Table {
	var headers []string
	for _, th := range table.Only(KindTableHead).Only(KindTableRow).Each(KindHeaderCell) {
		headers = append(headers, HeaderKey(th.Inline()))
	}

	rows := Table{}
	for _, tr := range table.Only(KindTableBody).Each(KindTableRow) {
		row := make(Row, len(headers))
		for i, td := range tr.Each(KindCell) {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = strings.TrimSpace(td.Inline())
		}
		rows = append(rows, row)
	}
	return rows
}

// HeaderKey folds a header title into a lowercase, hyphen-joined key:
// "Tag  Group" becomes "tag-group".
func HeaderKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
