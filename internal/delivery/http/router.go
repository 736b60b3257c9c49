package http

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Profile      *controllers.ProfileController
	Conference   *controllers.ConferenceController
	Session      *controllers.SessionController
	Registration *controllers.RegistrationController
	Cache        *controllers.CacheController
	Task         *controllers.TaskController
}

// NewRouter initializes the HTTP router with all application routes.
// Reads of public data are open; user-scoped routes require a bearer token and
// task routes require the task secret header.
func NewRouter(c Controllers, verifier domain.TokenVerifier, taskSecret string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	task := middleware.RequireTaskSecret(taskSecret)

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profile.GetProfile))
	mux.HandleFunc("POST /profile", auth(c.Profile.SaveProfile))

	// Conferences
	mux.HandleFunc("POST /conferences", auth(c.Conference.CreateConference))
	mux.HandleFunc("POST /conferences/query", c.Conference.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(c.Conference.ListCreated))
	mux.HandleFunc("GET /conferences/attending", auth(c.Conference.ListAttending))
	mux.HandleFunc("GET /conferences/before", c.Conference.ListStartingBefore)
	mux.HandleFunc("GET /conferences/{conferenceID}", c.Conference.GetConference)
	mux.HandleFunc("PUT /conferences/{conferenceID}", auth(c.Conference.UpdateConference))
	mux.HandleFunc("POST /conferences/{conferenceID}/registration", auth(c.Registration.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceID}/registration", auth(c.Registration.Unregister))
	mux.HandleFunc("GET /conferences/{conferenceID}/featured-speaker", c.Cache.GetFeaturedSpeaker)
	mux.HandleFunc("GET /announcement", c.Cache.GetAnnouncement)

	// Sessions
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions", auth(c.Session.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions", c.Session.ListByConference)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/type/{sessionType}", c.Session.ListByType)
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/speaker", c.Session.ListByConferenceAndSpeaker)
	mux.HandleFunc("POST /sessions/query", c.Session.QuerySessions)
	mux.HandleFunc("GET /sessions/created", auth(c.Session.ListCreated))
	mux.HandleFunc("GET /sessions/before", c.Session.ListBefore)
	mux.HandleFunc("GET /sessions/non-workshop-before-seven", c.Session.ListNonWorkshopsBefore)

	// Wishlist
	mux.HandleFunc("GET /sessions/wishlist", auth(c.Registration.ListWishlist))
	mux.HandleFunc("POST /sessions/{sessionID}/wishlist", auth(c.Registration.AddToWishlist))
	mux.HandleFunc("DELETE /sessions/{sessionID}/wishlist", auth(c.Registration.RemoveFromWishlist))

	// Speakers
	mux.HandleFunc("GET /speakers", c.Session.ListSpeakers)
	mux.HandleFunc("GET /speakers/sessions", c.Session.ListBySpeaker)
	mux.HandleFunc("GET /speakers/conferences", c.Conference.ListBySpeaker)

	// Background tasks
	mux.HandleFunc("POST "+domain.RouteSetFeaturedSpeaker, task(c.Task.SetFeaturedSpeaker))
	mux.HandleFunc("POST "+domain.RouteSendConfirmationEmail, task(c.Task.SendConfirmationEmail))
	mux.HandleFunc("GET "+domain.RouteSetAnnouncement, task(c.Task.SetAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
