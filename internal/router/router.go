package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sistema-tareas/internal/config"
	"sistema-tareas/internal/handler"
	"sistema-tareas/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	usuarioHandler *handler.UsuarioHandler,
	tareaHandler *handler.TareaHandler,
	statsHandler *handler.StatsHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/set-password", authHandler.SetPassword)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Post("/change-password", authHandler.ChangePassword)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/reset-password", authHandler.ResetPassword)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		// The directory lists every account with role and password status,
		// so only admins can read it. Fetching a single user stays open.
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Get("/usuarios", usuarioHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/usuarios/{nombre}", usuarioHandler.Get)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/usuarios", usuarioHandler.Create)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/usuarios/admin", usuarioHandler.CreateAdmin)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Delete("/usuarios/{nombre}", usuarioHandler.Delete)

		api.With(authMiddleware.RequireAuth).Get("/tareas", tareaHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/tareas/{nombre}", tareaHandler.Get)
		api.With(authMiddleware.RequireAuth).Get("/tareas/usuario/{nombre}", tareaHandler.ListByUsuario)
		api.With(authMiddleware.RequireAuth).Post("/tareas", tareaHandler.Create)
		api.With(authMiddleware.RequireAuth).Post("/tareas/asignar", tareaHandler.Asignar)
		api.With(authMiddleware.RequireAuth).Post("/tareas/finalizar", tareaHandler.Finalizar)
		api.With(authMiddleware.RequireAuth).Post("/tareas/comentario", tareaHandler.Comentar)
		// Anyone authenticated can assign; taking an assignment away is
		// reserved for admins.
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Post("/tareas/desasignar", tareaHandler.Desasignar)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Put("/tareas/{nombre}/reactivar", tareaHandler.Reactivar)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireAdmin).Delete("/tareas/{nombre}", tareaHandler.Delete)

		api.With(authMiddleware.RequireAuth).Get("/estadisticas", statsHandler.Get)
	})

	return r
}
