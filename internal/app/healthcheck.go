package app

import (
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     version,
		Environment: app.config.Env,
	}

	resp := api.HealthcheckResponse{
		Status:      status,
		MovieCount:  app.catalog.Count(),
		TicketCount: app.ledger.Count(),
		SystemInfo:  systemInfo,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetIndex(w http.ResponseWriter, r *http.Request) {
	resp := api.IndexResponse{
		App:     "Cinema Booking API",
		Version: version,
		Endpoints: map[string]string{
			"GET /movies":                 "List movies with slot availability",
			"GET /movies/popular":         "List movies by tickets sold",
			"GET /movies/{movieId}":       "Get one movie",
			"GET /movies/{movieId}/slots": "Get seat counts per slot",
			"POST /tickets":               "Book a ticket",
			"GET /tickets":                "List active tickets",
			"GET /tickets/{ticketId}":     "Get a ticket",
			"DELETE /tickets/{ticketId}":  "Cancel a ticket",
			"GET /health":                 "Health check",
			"GET /openapi.json":           "OpenAPI document",
		},
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) getOpenAPI(w http.ResponseWriter, r *http.Request) {
	swagger, err := api.GetSwagger()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, swagger, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
