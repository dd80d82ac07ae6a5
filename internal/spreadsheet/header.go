package spreadsheet

import "strings"

const headerScanRows = 10

var headerKeywords = []string{"item #", "description", "date", "price", "sold"}

// FindHeaderRow returns the first of the leading rows that mentions at least
// two header keywords, or 0 when none does.
func FindHeaderRow(rows [][]any) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		hits := 0
		for _, keyword := range headerKeywords {
			if rowContains(rows[i], keyword) {
				hits++
			}
		}
		if hits >= 2 {
			return i
		}
	}
	return 0
}

func rowContains(row []any, keyword string) bool {
	for _, c := range row {
		if strings.Contains(strings.ToLower(ToText(c)), keyword) {
			return true
		}
	}
	return false
}

// HeaderCells lower-cases the header row for column matching.
func HeaderCells(row []any) []string {
	header := make([]string, len(row))
	for i, c := range row {
		header[i] = strings.ToLower(ToText(c))
	}
	return header
}

// FindColumn scans the header left to right and returns the first column
// containing any of the candidates, or -1. Column order wins over candidate order.
func FindColumn(header []string, candidates []string) int {
	return FindColumnAfter(header, candidates, -1)
}

// FindColumnAfter is FindColumn restricted to columns with index > after.
func FindColumnAfter(header []string, candidates []string, after int) int {
	for i := after + 1; i < len(header); i++ {
		for _, candidate := range candidates {
			if strings.Contains(header[i], candidate) {
				return i
			}
		}
	}
	return -1
}
