// Package httpserver exposes the portal's JSON-over-HTTP API.
package httpserver

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"go.uber.org/zap"

	"calendar-admin/internal/chat"
	"calendar-admin/internal/service"
)

// cookieName is the session cookie. The value is the raw opaque token; only
// its hash lives server-side.
const cookieName = "auth_token"

// Options carries router-level policy knobs.
type Options struct {
	CORSOrigins  []string
	CookieSecure bool
	SessionTTL   time.Duration

	// OpenRegistration leaves POST /users unauthenticated, matching the
	// historical deployment. When false, only authenticated admins create users.
	OpenRegistration bool
	// PublicUserList leaves GET /users unauthenticated for directory and
	// autocomplete use. When false, a session is required.
	PublicUserList bool
}

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	users    service.UserService
	events   service.EventService
	messages service.MessageService
	relay    chat.Completer
	log      *zap.Logger
	opts     Options
}

// New constructs a server with injected services.
func New(auth service.AuthService, users service.UserService, events service.EventService,
	messages service.MessageService, relay chat.Completer, log *zap.Logger, opts Options) *Server {
	return &Server{
		auth:     auth,
		users:    users,
		events:   events,
		messages: messages,
		relay:    relay,
		log:      log,
		opts:     opts,
	}
}

// App builds the fiber application with middleware and all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New()

	app.Use(s.recoverPanics)
	app.Use(s.logRequests)
	app.Use(observeRequests)
	if len(s.opts.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	app.Get("/healthz", s.health)
	app.Get("/metrics", metricsHandler())

	// Auth
	app.Post("/login", s.login)
	app.Post("/logout", s.logout)
	app.Get("/me", s.requireAuth, s.me)

	// Users. Creation and listing gates are deployment policy.
	if s.opts.OpenRegistration {
		app.Post("/users", s.createUser)
	} else {
		app.Post("/users", s.requireAuth, s.requireAdmin, s.createUser)
	}
	if s.opts.PublicUserList {
		app.Get("/users", s.listUsers)
	} else {
		app.Get("/users", s.requireAuth, s.listUsers)
	}
	app.Get("/users/:id", s.requireAuth, s.getUser)
	app.Put("/users/:id", s.requireAuth, s.updateUser)

	// Events
	app.Get("/events", s.requireAuth, s.listEvents)
	app.Post("/events", s.requireAuth, s.createEvent)

	// Messages
	app.Get("/messages", s.requireAuth, s.listMessages)
	app.Post("/messages", s.requireAuth, s.sendMessage)
	app.Post("/messages/:id/read", s.requireAuth, s.markRead)

	// Chat relay
	app.Post("/chat", s.requireAuth, s.chatRelay)

	return app
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
