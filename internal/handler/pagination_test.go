package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-api/internal/repository"
)

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, pageWindow(1, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0, 19, 20}, pageWindow(1, 20))
	assert.Equal(t, []int{1, 2, 0, 7, 8, 9, 10, 11, 12, 13, 0, 19, 20}, pageWindow(10, 20))
	assert.Equal(t, []int{1, 2, 0, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, pageWindow(20, 20))
}

func TestPaginate_LinksKeepQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/travels/x/tours?sortBy=price&sortOrder=asc&page=2", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	page := repository.NewPageRequest(2)
	out := paginate(c, []int{16, 17}, 32, page)

	assert.Equal(t, "http://example.com/api/v1/travels/x/tours", out.Meta.Path)
	assert.Equal(t, 3, out.Meta.LastPage)
	require.NotNil(t, out.Links.Prev)
	assert.Equal(t, "http://example.com/api/v1/travels/x/tours?page=1&sortBy=price&sortOrder=asc", *out.Links.Prev)
	require.NotNil(t, out.Meta.From)
	assert.Equal(t, 16, *out.Meta.From)
	assert.Equal(t, 17, *out.Meta.To)

	labels := make([]string, 0, len(out.Meta.Links))
	for _, l := range out.Meta.Links {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"&laquo; Previous", "1", "2", "3", "Next &raquo;"}, labels)
	assert.True(t, out.Meta.Links[2].Active)
}

func TestPageFromQuery(t *testing.T) {
	e := echo.New()
	for raw, want := range map[string]int{"": 1, "3": 3, "0": 1, "-2": 1, "abc": 1} {
		req := httptest.NewRequest(http.MethodGet, "/?page="+raw, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, want, pageFromQuery(c).Number, raw)
	}
}
