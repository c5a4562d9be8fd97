package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"runtrack/internal/adapters/ws"
	"runtrack/internal/policy"
	"runtrack/internal/ports/input"
	"runtrack/internal/ports/output"
)

// Server is the HTTP adapter: it wires the use cases behind the REST surface
// consumed by the admin console, the scanner station and the public pages.
type Server struct {
	users          input.UserUseCase
	runs           input.RunUseCase
	participations input.ParticipationUseCase
	finish         input.FinishUseCase
	mediaRepo      output.MediaRepository
	clock          output.Clock
	hub            *ws.Hub

	jwtSecret      string
	mediaDir       string
	allowedOrigins []string
	logger         zerolog.Logger
}

func NewServer(
	users input.UserUseCase,
	runs input.RunUseCase,
	participations input.ParticipationUseCase,
	finish input.FinishUseCase,
	mediaRepo output.MediaRepository,
	clock output.Clock,
	hub *ws.Hub,
	jwtSecret string,
	mediaDir string,
	allowedOrigins []string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		users:          users,
		runs:           runs,
		participations: participations,
		finish:         finish,
		mediaRepo:      mediaRepo,
		clock:          clock,
		hub:            hub,
		jwtSecret:      jwtSecret,
		mediaDir:       mediaDir,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))

	// Public surface: login, health, public results/display reads.
	r.Post("/login", s.handleLogin)
	r.Get("/health", s.handleHealth)
	r.Get("/users/public", s.handlePublicUsers)
	r.Get("/users/public/{id}", s.handlePublicUser)
	r.Get("/results", s.handleResults)
	r.Get("/media/{id}", s.handleServeMedia)
	r.Get("/ws/display", s.hub.Handler)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.With(s.requirePolicy(policy.ResourceScan, policy.ActionSubmit)).
			Post("/participations/finished", s.handleRegisterFinish)

		r.Route("/users", func(r chi.Router) {
			r.With(s.requirePolicy(policy.ResourceUser, policy.ActionRead)).Get("/", s.handleListUsers)
			r.With(s.requirePolicy(policy.ResourceUser, policy.ActionCreate)).Post("/", s.handleCreateUser)
			r.With(s.requireSelfOrPolicy(policy.ResourceUser, policy.ActionRead)).Get("/{id}", s.handleGetUser)
			r.With(s.requirePolicy(policy.ResourceUser, policy.ActionUpdate)).Patch("/{id}", s.handleUpdateUser)
			r.With(s.requirePolicy(policy.ResourceUser, policy.ActionDelete)).Delete("/{id}", s.handleDeleteUser)
			r.With(s.requirePolicy(policy.ResourceParticipation, policy.ActionCreate)).Post("/{id}/enroll", s.handleEnrollUser)
			r.With(s.requirePolicy(policy.ResourceMedia, policy.ActionCreate)).Post("/{id}/image", s.handleUploadImage)
		})

		r.Route("/runs", func(r chi.Router) {
			r.With(s.requirePolicy(policy.ResourceRun, policy.ActionRead)).Get("/", s.handleListRuns)
			r.With(s.requirePolicy(policy.ResourceRun, policy.ActionCreate)).Post("/", s.handleCreateRun)
			r.With(s.requirePolicy(policy.ResourceRun, policy.ActionRead)).Get("/{id}", s.handleGetRun)
			r.With(s.requirePolicy(policy.ResourceRun, policy.ActionUpdate)).Patch("/{id}", s.handleUpdateRun)
			r.With(s.requirePolicy(policy.ResourceRun, policy.ActionDelete)).Delete("/{id}", s.handleDeleteRun)
		})

		r.Route("/participations", func(r chi.Router) {
			// Reads check ownership in the handlers: runners may see their
			// own participations, run-wide listings need the role policy.
			r.Get("/", s.handleListParticipations)
			r.With(s.requirePolicy(policy.ResourceParticipation, policy.ActionCreate)).Post("/", s.handleCreateParticipation)
			r.Get("/{id}", s.handleGetParticipation)
			r.With(s.requirePolicy(policy.ResourceParticipation, policy.ActionDelete)).Delete("/{id}", s.handleDeleteParticipation)
			r.With(s.requirePolicy(policy.ResourceParticipation, policy.ActionCorrect)).Patch("/{id}/arrival", s.handleCorrectArrival)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
