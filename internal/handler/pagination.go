package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-api/internal/repository"
)

// onEachSide is how many page numbers are shown around the current page in
// meta.links before the list collapses into "..." gaps.
const onEachSide = 3

type pageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

type pageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type pageMeta struct {
	CurrentPage int        `json:"current_page"`
	From        *int       `json:"from"`
	LastPage    int        `json:"last_page"`
	Links       []pageLink `json:"links"`
	Path        string     `json:"path"`
	PerPage     int        `json:"per_page"`
	To          *int       `json:"to"`
	Total       int64      `json:"total"`
}

// paginated is the list response envelope.
type paginated[T any] struct {
	Data  []T       `json:"data"`
	Links pageLinks `json:"links"`
	Meta  pageMeta  `json:"meta"`
}

// pageFromQuery reads ?page=; anything that is not a positive integer means
// the first page.
func pageFromQuery(c echo.Context) repository.PageRequest {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("page")))
	if err != nil {
		n = 1
	}
	return repository.NewPageRequest(n)
}

func paginate[T any](c echo.Context, items []T, total int64, page repository.PageRequest) paginated[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := 1
	if total > 0 {
		lastPage = int((total + int64(page.Size) - 1) / int64(page.Size))
	}

	u := newPageURLs(c)
	meta := pageMeta{
		CurrentPage: page.Number,
		LastPage:    lastPage,
		Path:        u.path,
		PerPage:     page.Size,
		Total:       total,
	}
	if len(items) > 0 {
		from := page.Offset() + 1
		to := page.Offset() + len(items)
		meta.From, meta.To = &from, &to
	}

	links := pageLinks{First: u.page(1), Last: u.page(lastPage)}
	if page.Number > 1 {
		prev := u.page(page.Number - 1)
		links.Prev = &prev
	}
	if page.Number < lastPage {
		next := u.page(page.Number + 1)
		links.Next = &next
	}

	meta.Links = append(meta.Links, pageLink{URL: links.Prev, Label: "&laquo; Previous"})
	for _, n := range pageWindow(page.Number, lastPage) {
		if n == 0 {
			meta.Links = append(meta.Links, pageLink{Label: "..."})
			continue
		}
		link := u.page(n)
		meta.Links = append(meta.Links, pageLink{URL: &link, Label: strconv.Itoa(n), Active: n == page.Number})
	}
	meta.Links = append(meta.Links, pageLink{URL: links.Next, Label: "Next &raquo;"})

	return paginated[T]{Data: items, Links: links, Meta: meta}
}

// pageWindow lists the page numbers to show, with 0 marking a gap.  Short
// listings show every page; long ones show both ends plus a slider around
// current.
func pageWindow(current, last int) []int {
	if last < onEachSide*2+8 {
		return pageRange(1, last)
	}
	window := onEachSide + 4
	var out []int
	switch {
	case current <= window:
		out = append(pageRange(1, window+onEachSide), 0)
		out = append(out, last-1, last)
	case current > last-window:
		out = []int{1, 2, 0}
		out = append(out, pageRange(last-(window+onEachSide-1), last)...)
	default:
		out = []int{1, 2, 0}
		out = append(out, pageRange(current-onEachSide, current+onEachSide)...)
		out = append(out, 0, last-1, last)
	}
	return out
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

type pageURLs struct {
	path  string
	query url.Values
}

func newPageURLs(c echo.Context) pageURLs {
	r := c.Request()
	q := url.Values{}
	for k, v := range r.URL.Query() {
		q[k] = append([]string(nil), v...)
	}
	return pageURLs{path: c.Scheme() + "://" + r.Host + r.URL.Path, query: q}
}

// page builds the URL of page n, keeping every other query parameter.
func (p pageURLs) page(n int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.path + "?" + q.Encode()
}
