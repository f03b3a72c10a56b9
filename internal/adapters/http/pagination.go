package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 200
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// pageParams reads offset and limit from the query string. Out-of-range
// values fall back to the defaults.
func pageParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	limit = c.QueryInt("limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return offset, limit
}

// paginate returns the requested window of items. The result is never nil.
func paginate[T any](items []T, offset, limit int) ([]T, Pagination) {
	pg := Pagination{Offset: offset, Limit: limit, Total: len(items)}
	if offset >= len(items) {
		return []T{}, pg
	}
	return items[offset:min(offset+limit, len(items))], pg
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses. Filters
// in the current query string are carried over to every link.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key != "offset" && key != "limit" {
			query.Add(key, string(v))
		}
	})

	link := func(offset int, rel string) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, q.Encode(), rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
}
