package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", c.listRooms)
			r.Post("/", c.createRoom)
			r.Route("/{room-id}", func(r chi.Router) {
				r.Get("/", c.getRoom)
				r.Post("/close", c.closeRoom)
				r.Get("/messages", c.listMessages)
				r.Post("/messages", c.postMessage)
				r.Get("/video_feed", c.hostVideoFeed)
				r.Get("/video_feed/{participant}", c.videoFeed)
			})
		})
		r.Route("/ws", func(r chi.Router) {
			r.Get("/{room-id}/{participant}", c.connectParticipant)
		})
	})

	return r
}
