package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("GET /v1/races/{raceID}/horses", handler.ListRaceHorses)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPredictionRoutes(mux, handler, verifier)
	registerAuthorizedRankingRoutes(mux, handler, verifier)
	registerAuthorizedSocialRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/races", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CreateRace)))
	mux.Handle("POST /v1/internal/races/{raceID}/result", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.PublishRaceResult)))
	mux.Handle("POST /v1/internal/jobs/recompute-points", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputePointsJob)))
}

func registerAuthorizedPredictionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.CreatePrediction)))
	mux.Handle("GET /v1/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("DELETE /v1/predictions/{predictionID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePrediction)))
	mux.Handle("GET /v1/predictions/timeline", RequireAuth(verifier, http.HandlerFunc(handler.GetPredictionTimeline)))
	mux.Handle("GET /v1/results/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyResults)))
	mux.Handle("GET /v1/points/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPoints)))
	mux.Handle("GET /v1/users/me/summary", RequireAuth(verifier, http.HandlerFunc(handler.GetMySummary)))
}

func registerAuthorizedRankingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/rankings/points", RequireAuth(verifier, http.HandlerFunc(handler.GetPointsRanking)))
	mux.Handle("GET /v1/rankings/hit-rate", RequireAuth(verifier, http.HandlerFunc(handler.GetHitRateRanking)))
}

func registerAuthorizedSocialRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/follows", RequireAuth(verifier, http.HandlerFunc(handler.FollowUser)))
	mux.Handle("DELETE /v1/follows/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.UnfollowUser)))
	mux.Handle("GET /v1/follows/following", RequireAuth(verifier, http.HandlerFunc(handler.ListFollowing)))
	mux.Handle("GET /v1/follows/followers", RequireAuth(verifier, http.HandlerFunc(handler.ListFollowers)))
	mux.Handle("POST /v1/groups", RequireAuth(verifier, http.HandlerFunc(handler.CreateGroup)))
	mux.Handle("GET /v1/groups/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyGroups)))
	mux.Handle("POST /v1/groups/{groupID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinGroup)))
	mux.Handle("GET /v1/groups/{groupID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.ListGroupMessages)))
	mux.Handle("POST /v1/groups/{groupID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.PostGroupMessage)))
	mux.Handle("GET /v1/groups/{groupID}/shared-predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListGroupSharedPredictions)))
	mux.Handle("POST /v1/groups/{groupID}/shared-predictions", RequireAuth(verifier, http.HandlerFunc(handler.ShareGroupPrediction)))
}
