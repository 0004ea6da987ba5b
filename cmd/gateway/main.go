package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/formatech/coursegate/internal/access"
	api "github.com/formatech/coursegate/internal/api/http"
	auth "github.com/formatech/coursegate/internal/auth/middleware"
	"github.com/formatech/coursegate/internal/catalog"
	"github.com/formatech/coursegate/internal/config"
	"github.com/formatech/coursegate/internal/db"
	"github.com/formatech/coursegate/internal/discussion"
	"github.com/formatech/coursegate/internal/player"
	"github.com/formatech/coursegate/internal/rbac"
	"github.com/formatech/coursegate/internal/storage"
	"github.com/formatech/coursegate/internal/trainingapi"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	cat := catalog.NewSQLStore(dbh)
	discussions := discussion.NewStore(dbh)

	// --- Collaborators ---
	training := trainingapi.New(cfg.TrainingAPIBase)
	gate := access.NewGate(training)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	sessions := player.NewRegistry(bs, training, cfg.ViewerBase)
	defer sessions.CloseAll()

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Viewer surface. Identity is optional: anonymous viewers can still open a
	// course and unlock it with an access key.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.OptionalJWT(authSvc))

		pr.Get("/courses/{courseID}", api.GetCourseHandler(training, cat, gate))
		pr.Post("/courses/{courseID}/sessions", api.CreateSessionHandler(training, cat, gate, sessions))

		pr.Route("/sessions/{sessionID}", func(sr chi.Router) {
			sr.Get("/", api.GetSessionHandler(sessions))
			sr.Delete("/", api.CloseSessionHandler(sessions))
			sr.Post("/access-key", api.SubmitAccessKeyHandler(sessions))
			sr.Post("/modules/{index}", api.LoadModuleHandler(sessions))
			sr.Post("/next", api.NextModuleHandler(sessions))
			sr.Post("/previous", api.PreviousModuleHandler(sessions))
			sr.Post("/toggles/{panel}", api.TogglePanelHandler(sessions))
			sr.Post("/video-error", api.VideoErrorHandler(sessions))

			sr.Get("/quiz", api.GetQuizHandler(sessions))
			sr.Post("/quiz/start", api.StartQuizHandler(sessions))
			sr.Post("/quiz/answers", api.AnswerHandler(sessions))
			sr.Post("/quiz/submit", api.SubmitQuizHandler(sessions))
			sr.Post("/quiz/retake", api.RetakeQuizHandler(sessions))
			sr.Post("/quiz/exit", api.ExitQuizHandler(sessions))
		})

		pr.Get("/courses/{courseID}/discussions", api.ListDiscussionsHandler(discussions))
		pr.Post("/courses/{courseID}/discussions", api.PostQuestionHandler(discussions))
		pr.Post("/discussions/{questionID}/replies", api.PostReplyHandler(discussions))
		pr.Delete("/discussions/{questionID}", api.DeleteQuestionHandler(discussions))
	})

	// Authoring surface (JWT -> role -> rbac).
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.With(rbac.Require("catalog:write")).
			Put("/admin/courses/{courseID}", api.PutCourseRecordHandler(cat))
		pr.With(rbac.Require("catalog:write")).
			Get("/admin/courses/{courseID}", api.GetCourseRecordHandler(cat))
		pr.With(rbac.Require("catalog:write")).
			Delete("/admin/courses/{courseID}", api.DeleteCourseRecordHandler(cat))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, training-api=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.TrainingAPIBase)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
