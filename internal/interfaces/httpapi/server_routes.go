package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/users", handler.RegisterUser)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
	mux.HandleFunc("PUT /v1/users/{userID}/predictions/{fixtureID}", handler.SubmitPrediction)
	mux.HandleFunc("GET /v1/users/{userID}/points", handler.GetUserPoints)
	mux.HandleFunc("GET /v1/users/{userID}/points/tournaments", handler.GetUserTournamentPoints)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/fixtures", handler.ListTournamentFixtures)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.GetOverallStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/groups/{group}/standings", handler.GetGroupStandings)
}

func registerResultRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/fixtures/{fixtureID}/result", handler.SaveFixtureResult)
	mux.HandleFunc("POST /v1/fixtures/{fixtureID}/score/preview", handler.PreviewFixtureScore)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/internal/audit", handler.RunAudit)
}
