package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/scoring-engine/docs" // swagger spec
	"github.com/Dosada05/scoring-engine/handlers"
	"github.com/Dosada05/scoring-engine/middleware"
	"github.com/Dosada05/scoring-engine/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options настраивает общие middleware роутера.
type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// WebSocket живёт дольше любого таймаута запроса
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты для просмотра турниров
			r.Get("/", tournamentHandler.ListHandler)
			r.With(authenticate, organizerOnly).Post("/", tournamentHandler.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Get("/participants", tournamentHandler.ListParticipantsHandler)
				r.Get("/standings", tournamentHandler.StandingsHandler)
				r.Get("/bracket", tournamentHandler.BracketHandler)
				r.Get("/rounds", tournamentHandler.RoundsHandler)
				r.Get("/matches", matchHandler.ListByTournamentHandler)

				// Защищенные маршруты только для организаторов
				r.Group(func(r chi.Router) {
					r.Use(authenticate, organizerOnly)

					r.Post("/participants", tournamentHandler.AddParticipantHandler)
					r.Post("/start", tournamentHandler.StartHandler)
					r.Post("/cancel", tournamentHandler.CancelHandler)
				})
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetHandler)
			r.Get("/live", matchHandler.LiveHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(middleware.Authorize(models.RoleScorer, models.RoleOrganizer, models.RoleAdmin))

				r.Post("/start", matchHandler.StartHandler)
				r.Post("/events", matchHandler.EventHandler)
				r.Post("/undo", matchHandler.UndoHandler)
				r.Put("/server", matchHandler.SetServerHandler)
				r.Post("/result", matchHandler.ResultHandler)
			})
		})
	})
}
