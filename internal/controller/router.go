package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Get("/healthz", c.healthz)
	r.Get("/api/room/{room-id}", c.getRoom)
	r.HandleFunc("/ws", c.serveWS)

	return r
}
