package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games", handler.ListGamesByDate)
	mux.HandleFunc("GET /v1/games/{gamePk}", handler.GetGameDetail)
	mux.HandleFunc("GET /v1/games/{gamePk}/header", handler.GetGameHeader)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/prewarm", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPrewarmJob)))
	mux.Handle("GET /v1/internal/archive/games/{gamePk}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListArchivedPayloads)))
}
