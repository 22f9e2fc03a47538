// utils/query.go
package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListQuery declares which query parameters a list endpoint accepts: equality
// filters, substring search fields and an ordering whitelist.
type ListQuery struct {
	Filters      map[string]string // query param -> column
	SearchFields []string          // columns matched by ?search=
	OrderFields  map[string]string // ?ordering= name -> column
	DefaultOrder string
}

// ApplyListQuery narrows a list query according to the request parameters.
// Unknown ordering values fall back to the default order; unknown filter
// params are ignored.
func ApplyListQuery(c *gin.Context, tx *gorm.DB, q ListQuery) *gorm.DB {
	for param, column := range q.Filters {
		if v := c.Query(param); v != "" {
			tx = tx.Where(column+" = ?", v)
		}
	}

	if search := c.Query("search"); search != "" && len(q.SearchFields) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, 0, len(q.SearchFields))
		args := make([]interface{}, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, pattern)
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}

	order := q.DefaultOrder
	if ordering := c.Query("ordering"); ordering != "" {
		field := strings.TrimPrefix(ordering, "-")
		if column, ok := q.OrderFields[field]; ok {
			order = column
			if strings.HasPrefix(ordering, "-") {
				order += " DESC"
			}
		}
	}
	if order != "" {
		tx = tx.Order(order)
	}

	return tx
}
