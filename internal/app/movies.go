package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies := app.catalog.Movies()

	err := app.writeJSON(w, http.StatusOK, toApiMovies(movies, true), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetPopularMovies lists movies by tickets sold, without slot detail.
func (app *Application) GetPopularMovies(w http.ResponseWriter, r *http.Request) {
	movies := app.ledger.ListByPopularity()

	err := app.writeJSON(w, http.StatusOK, toApiMovies(movies, false), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieById(w http.ResponseWriter, r *http.Request, movieId int) {
	movie, err := app.catalog.FindByID(movieId)
	if err != nil {
		app.movieLookupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie, true), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieSlots(w http.ResponseWriter, r *http.Request, movieId int) {
	movie, err := app.catalog.FindByID(movieId)
	if err != nil {
		app.movieLookupErrorResponse(w, r, err)
		return
	}

	resp := api.MovieSlotsResponse{
		MovieId:   movie.ID,
		MovieName: movie.Name,
		Slots:     make(map[string]api.SlotDetail, len(movie.SlotOrder)),
	}

	for _, slot := range movie.OrderedSlots() {
		resp.Slots[slot.Label] = api.SlotDetail{
			Total:     slot.Capacity,
			Available: slot.Available,
			Booked:    slot.Booked(),
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) movieLookupErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		app.errorResponse(w, r, http.StatusNotFound, ErrMovieNotFound)
		return
	}

	app.serverErrorResponse(w, r, err)
}

func toApiMovies(movies []domain.Movie, withSlots bool) []api.Movie {
	resp := make([]api.Movie, len(movies))
	for i, movie := range movies {
		resp[i] = toApiMovie(movie, withSlots)
	}

	return resp
}

func toApiMovie(movie domain.Movie, withSlots bool) api.Movie {
	m := api.Movie{
		Id:              movie.ID,
		Name:            movie.Name,
		Genre:           movie.Genre,
		Rating:          movie.Rating.InexactFloat64(),
		PosterReference: movie.PosterURL,
		TicketsSold:     movie.TicketsSold,
	}

	if withSlots {
		m.Slots = make(map[string]api.SlotAvailability, len(movie.SlotOrder))
		for _, slot := range movie.OrderedSlots() {
			m.Slots[slot.Label] = api.SlotAvailability{
				Total:     slot.Capacity,
				Available: slot.Available,
			}
		}
	}

	return m
}
