// scraper/table.go
package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"chartpulse/models"
)

// ExtractRows pulls every data row out of the first table matching
// selector, as ordered cell-text tuples. Header rows (th-only) are
// skipped. No semantic validation happens here.
//
// A missing table returns a *models.ParseError: that means the page
// layout changed upstream and every row of this fetch is suspect, so
// the error must be surfaced rather than skipped row by row.
func ExtractRows(markup, selector string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &models.ParseError{Selector: selector, Err: err}
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, &models.ParseError{Selector: selector, Err: errors.New("no matching element")}
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
	})
	return rows, nil
}
