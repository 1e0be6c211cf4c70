package utils

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func GetNewUUID() string {
	return uuid.New().String()
}

type RouterClient struct {
	Router *chi.Mux
}

func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}

// GetRouter builds a router with the prometheus endpoint registered.
func GetRouter() RouterClient {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	return RouterClient{Router: router}
}

// UnmatchedRoute labels requests that did not resolve to a registered pattern.
const UnmatchedRoute = "unmatched"
