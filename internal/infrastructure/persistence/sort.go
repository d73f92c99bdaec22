package persistence

import "strings"

// sanitizeOrder returns a safe ORDER BY clause. The column must be in the
// whitelist; anything else falls back to the given default clause. OrderBy
// values come from query strings and are never interpolated unchecked.
func sanitizeOrder(orderBy, orderDir string, allowed map[string]bool, fallback string) string {
	if orderBy == "" || !allowed[orderBy] {
		return fallback
	}
	dir := "ASC"
	if strings.EqualFold(orderDir, "desc") {
		dir = "DESC"
	}
	return orderBy + " " + dir
}
