package repository

import "strings"

// sortClause resolves a requested sort column against an allow-list and
// normalises the sort order. Unknown columns fall back to created_at.
func sortClause(sortBy, sortOrder string, allowed map[string]string) (string, string) {
	column, ok := allowed[sortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return column, order
}

// pageBounds clamps paging inputs and returns the LIMIT/OFFSET pair.
func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
