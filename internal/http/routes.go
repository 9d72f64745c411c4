package http

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/sushant12/vdisk/internal/http/handlers"
)

func RegisterRoutes(r *mux.Router, h *handlers.Generate) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/script", h.Script).Methods("POST")
	api.HandleFunc("/manifest", h.Manifest).Methods("POST")
	api.HandleFunc("/firecracker", h.Firecracker).Methods("POST")
}

func NewRouter(h *handlers.Generate, log logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(handlers.WithRequestID(log))
	RegisterRoutes(r, h)

	return r
}
