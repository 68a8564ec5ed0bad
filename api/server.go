package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /)
	GetIndex(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /movies)
	GetMovies(w http.ResponseWriter, r *http.Request)
	// (GET /movies/popular)
	GetPopularMovies(w http.ResponseWriter, r *http.Request)
	// (GET /movies/{movieId})
	GetMovieById(w http.ResponseWriter, r *http.Request, movieId int)
	// (GET /movies/{movieId}/slots)
	GetMovieSlots(w http.ResponseWriter, r *http.Request, movieId int)
	// (POST /tickets)
	BookTicket(w http.ResponseWriter, r *http.Request)
	// (GET /tickets)
	ListTickets(w http.ResponseWriter, r *http.Request)
	// (GET /tickets/{ticketId})
	GetTicket(w http.ResponseWriter, r *http.Request, ticketId string)
	// (DELETE /tickets/{ticketId})
	CancelTicket(w http.ResponseWriter, r *http.Request, ticketId string)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts path parameters before calling the
// ServerInterface method.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	var handler http.Handler = h
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// bindPathParam binds a simple-style path parameter into dest and reports
// failures through ErrorHandlerFunc.
func (siw *ServerInterfaceWrapper) bindPathParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

func (siw *ServerInterfaceWrapper) GetIndex(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetIndex)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetHealth)
}

func (siw *ServerInterfaceWrapper) GetMovies(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetMovies)
}

func (siw *ServerInterfaceWrapper) GetPopularMovies(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetPopularMovies)
}

func (siw *ServerInterfaceWrapper) GetMovieById(w http.ResponseWriter, r *http.Request) {
	var movieId int

	if !siw.bindPathParam(w, r, "movieId", &movieId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetMovieById(w, r, movieId)
	})
}

func (siw *ServerInterfaceWrapper) GetMovieSlots(w http.ResponseWriter, r *http.Request) {
	var movieId int

	if !siw.bindPathParam(w, r, "movieId", &movieId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetMovieSlots(w, r, movieId)
	})
}

func (siw *ServerInterfaceWrapper) BookTicket(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.BookTicket)
}

func (siw *ServerInterfaceWrapper) ListTickets(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListTickets)
}

func (siw *ServerInterfaceWrapper) GetTicket(w http.ResponseWriter, r *http.Request) {
	var ticketId string

	if !siw.bindPathParam(w, r, "ticketId", &ticketId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTicket(w, r, ticketId)
	})
}

func (siw *ServerInterfaceWrapper) CancelTicket(w http.ResponseWriter, r *http.Request) {
	var ticketId string

	if !siw.bindPathParam(w, r, "ticketId", &ticketId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CancelTicket(w, r, ticketId)
	})
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/", wrapper.GetIndex)
		r.Get(base+"/health", wrapper.GetHealth)
		r.Get(base+"/movies", wrapper.GetMovies)
		r.Get(base+"/movies/popular", wrapper.GetPopularMovies)
		r.Get(base+"/movies/{movieId}", wrapper.GetMovieById)
		r.Get(base+"/movies/{movieId}/slots", wrapper.GetMovieSlots)
		r.Post(base+"/tickets", wrapper.BookTicket)
		r.Get(base+"/tickets", wrapper.ListTickets)
		r.Get(base+"/tickets/{ticketId}", wrapper.GetTicket)
		r.Delete(base+"/tickets/{ticketId}", wrapper.CancelTicket)
	})

	// paths of the first web client
	r.Group(func(r chi.Router) {
		r.Get(base+"/popular", wrapper.GetPopularMovies)
		r.Get(base+"/movie/{movieId}", wrapper.GetMovieById)
		r.Get(base+"/slots/{movieId}", wrapper.GetMovieSlots)
		r.Post(base+"/book", wrapper.BookTicket)
		r.Get(base+"/ticket/{ticketId}", wrapper.GetTicket)
		r.Delete(base+"/cancel/{ticketId}", wrapper.CancelTicket)
	})

	return r
}
