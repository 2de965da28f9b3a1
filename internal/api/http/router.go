package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/api/http/handlers"
	"github.com/encenape/event-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Tickets        *handlers.TicketsHandler
	Messages       *handlers.MessagesHandler
	FAQ            *handlers.FAQHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Put("/me/password", cfg.Auth.ChangePassword)
	users.Delete("/me", cfg.Users.DeactivateMe)

	eventos := app.Group("/eventos")
	eventos.Get("/", cfg.Events.List)
	eventos.Get("/proximos", cfg.Events.ListUpcoming)
	eventos.Get("/disponiveis", cfg.Events.ListAvailable)
	eventos.Get("/categorias", cfg.Events.Categories)
	eventos.Get("/cidades", cfg.Events.Cities)
	eventos.Get("/espacos", cfg.Events.ListVenues)

	eventosAdmin := eventos.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	eventosAdmin.Get("/", cfg.Events.ListAll)
	eventosAdmin.Post("/", cfg.Events.Create)
	eventosAdmin.Put("/:id", cfg.Events.Update)
	eventosAdmin.Delete("/:id", cfg.Events.Delete)

	// Parameterized route goes last so the fixed segments above win.
	eventos.Get("/:id", cfg.Events.Get)

	ingressos := app.Group("/ingressos", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	ingressos.Post("/", cfg.Tickets.Purchase)
	ingressos.Get("/me", cfg.Tickets.ListMine)
	ingressos.Get("/me/paginado", cfg.Tickets.ListMinePaginated)
	ingressos.Get("/me/ativos", cfg.Tickets.ListMineActive)
	ingressos.Get("/codigo/:codigo", cfg.Tickets.GetByCode)
	ingressos.Post("/:id/cancel", cfg.Tickets.Cancel)

	mensagens := app.Group("/mensagens")
	mensagens.Post("/", cfg.Messages.Create)

	mensagensAdmin := mensagens.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	mensagensAdmin.Get("/", cfg.Messages.List)
	mensagensAdmin.Get("/paginado", cfg.Messages.ListPaginated)
	mensagensAdmin.Get("/abertas", cfg.Messages.ListOpen)
	mensagensAdmin.Post("/:id/responder", cfg.Messages.Respond)

	faq := app.Group("/faq")
	faq.Get("/", cfg.FAQ.List)
	faq.Get("/paginado", cfg.FAQ.ListPaginated)
	faq.Get("/categorias", cfg.FAQ.Categories)
	faq.Get("/categoria/:categoria", cfg.FAQ.ListByCategory)
	faq.Get("/search", cfg.FAQ.Search)
	faq.Get("/search/paginado", cfg.FAQ.SearchPaginated)
}
