package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/repository"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) addTour(travelID uint64, name, start, end string, price int64) model.Tour {
	t := model.Tour{TravelID: travelID, Name: name, StartingDate: day(start), EndingDate: day(end), Price: model.MoneyFromMinor(price)}
	_ = f.tours.Create(context.Background(), &t)
	return t
}

func TestPublicListTravels_PaginatesPublicOnly(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 16; i++ {
		f.travels.add(fmt.Sprintf("travel %d", i), true)
	}
	f.travels.add("hidden", false)

	rec := f.do(http.MethodGet, "/api/v1/travels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listBody[travelResource]](t, rec)
	assert.Len(t, body.Data, 15)
	assert.Equal(t, uint64(1), body.Data[0].ID)
	assert.Equal(t, 2, body.Meta.LastPage)
	assert.Equal(t, int64(16), body.Meta.Total)
	assert.Equal(t, 15, body.Meta.PerPage)
	require.NotNil(t, body.Links.Next)
	assert.Contains(t, *body.Links.Next, "page=2")
	assert.Nil(t, body.Links.Prev)

	rec = f.do(http.MethodGet, "/api/v1/travels?page=2", "")
	body = decode[listBody[travelResource]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "travel 16", body.Data[0].Name)
	require.NotNil(t, body.Meta.From)
	assert.Equal(t, 16, *body.Meta.From)
	assert.Nil(t, body.Links.Next)
}

func TestPublicListTravels_EmptyPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/travels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	body := decode[listBody[travelResource]](t, rec)
	assert.Nil(t, body.Meta.From)
	assert.Nil(t, body.Meta.To)
	assert.Equal(t, 1, body.Meta.LastPage)
}

func TestPublicListTravels_HugePageNumber(t *testing.T) {
	f := newFixture(t)
	f.travels.add("only", true)

	rec := f.do(http.MethodGet, "/api/v1/travels?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[listBody[travelResource]](t, rec)
	assert.Empty(t, body.Data)
	assert.Equal(t, int64(1), body.Meta.Total)
	assert.Nil(t, body.Meta.From)
}

func TestPublicListTours_DateFrom(t *testing.T) {
	f := newFixture(t)
	x := f.travels.add("x", true)
	f.addTour(x.ID, "early", "2023-07-01", "2023-07-05", 10000)
	later := f.addTour(x.ID, "later", "2023-07-03", "2023-07-07", 10000)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours?dateFrom=2023-07-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listBody[tourResource]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, later.ID, body.Data[0].ID)
	assert.Equal(t, "2023-07-03", body.Data[0].StartingDate)
}

func TestPublicListTours_DateTo(t *testing.T) {
	f := newFixture(t)
	x := f.travels.add("x", true)
	early := f.addTour(x.ID, "early", "2023-07-01", "2023-07-05", 10000)
	f.addTour(x.ID, "later", "2023-07-03", "2023-07-07", 10000)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours?dateTo=2023-07-06", "")
	body := decode[listBody[tourResource]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, early.ID, body.Data[0].ID)
}

func TestPublicListTours_PriceFilterAndSort(t *testing.T) {
	f := newFixture(t)
	x := f.travels.add("x", true)
	cheap := f.addTour(x.ID, "cheap", "2023-07-05", "2023-07-06", 10000)
	mid := f.addTour(x.ID, "mid", "2023-07-01", "2023-07-02", 20000)
	dear := f.addTour(x.ID, "dear", "2023-07-03", "2023-07-04", 30000)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours?priceFrom=150&priceTo=300", "")
	body := decode[listBody[tourResource]](t, rec)
	require.Len(t, body.Data, 2)
	assert.Equal(t, []uint64{mid.ID, dear.ID}, []uint64{body.Data[0].ID, body.Data[1].ID})
	require.NotNil(t, f.tours.last.PriceFrom)
	assert.Equal(t, int64(15000), f.tours.last.PriceFrom.Minor())

	rec = f.do(http.MethodGet, "/api/v1/travels/x/tours?sortBy=price&sortOrder=desc", "")
	body = decode[listBody[tourResource]](t, rec)
	require.Len(t, body.Data, 3)
	assert.Equal(t, []uint64{dear.ID, mid.ID, cheap.ID}, []uint64{body.Data[0].ID, body.Data[1].ID, body.Data[2].ID})

	// sortBy alone keeps the default starting_date order.
	rec = f.do(http.MethodGet, "/api/v1/travels/x/tours?sortBy=price", "")
	body = decode[listBody[tourResource]](t, rec)
	assert.Equal(t, []uint64{mid.ID, dear.ID, cheap.ID}, []uint64{body.Data[0].ID, body.Data[1].ID, body.Data[2].ID})
}

func TestPublicListTours_PriceIsMajorUnits(t *testing.T) {
	f := newFixture(t)
	x := f.travels.add("x", true)
	f.addTour(x.ID, "t", "2023-07-01", "2023-07-02", 14659)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours", "")
	assert.Contains(t, rec.Body.String(), `"price":"146.59"`)
}

func TestPublicListTours_PrivateTravelIsNotFound(t *testing.T) {
	f := newFixture(t)
	hidden := f.travels.add("hidden", false)
	f.addTour(hidden.ID, "t", "2023-07-01", "2023-07-02", 100)

	rec := f.do(http.MethodGet, "/api/v1/travels/hidden/tours", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Travel not found."}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/travels/missing/tours", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicListTours_InvalidQuery(t *testing.T) {
	f := newFixture(t)
	f.travels.add("x", true)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours?dateFrom=yesterday&priceTo=cheap&sortBy=name&sortOrder=up", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, []string{"The date from field must be a valid date."}, body.Errors["dateFrom"])
	assert.Equal(t, []string{"The price to field must be a number."}, body.Errors["priceTo"])
	assert.Equal(t, []string{"The selected sort by is invalid."}, body.Errors["sortBy"])
	assert.Equal(t, []string{"The selected sort order is invalid."}, body.Errors["sortOrder"])
	assert.NotEmpty(t, body.Message)
}

func TestPublicListTours_PriceOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.travels.add("x", true)

	rec := f.do(http.MethodGet, "/api/v1/travels/x/tours?priceFrom=100000000000000000000&priceTo=-92233720368547758.09", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, []string{"The price from field must be a number."}, body.Errors["priceFrom"])
	assert.Equal(t, []string{"The price to field must be a number."}, body.Errors["priceTo"])
}

func TestPublicListTours_SortOrderIsPassedThrough(t *testing.T) {
	f := newFixture(t)
	f.travels.add("x", true)

	f.do(http.MethodGet, "/api/v1/travels/x/tours?sortBy=price&sortOrder=asc&dateFrom=2023-01-01", "")
	assert.Equal(t, repository.SortByPrice, f.tours.last.SortBy)
	assert.Equal(t, repository.SortAsc, f.tours.last.SortOrder)
	require.NotNil(t, f.tours.last.DateFrom)
	assert.True(t, f.tours.last.DateFrom.Equal(day("2023-01-01")))
}
