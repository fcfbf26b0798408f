package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/jwtx"
	"github.com/aussiebroadwan/edura/pkg/slogx"

	_ "github.com/aussiebroadwan/edura/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService
	UserService *service.UserService

	// SupportEmail is quoted to users whose account is locked.
	SupportEmail string
	// ExposeErrorDetail returns mail transport errors to the caller. Dev only.
	ExposeErrorDetail bool

	// StrictLimit guards credential endpoints, LenientLimit everything else.
	StrictLimit  httpx.RateLimitConfig
	LenientLimit httpx.RateLimitConfig

	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Empty means the
	// socket peer is the client.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		StrictLimit:  httpx.StrictLimit,
		LenientLimit: httpx.LenientLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer(),
		httpx.MaxBodyBytes(maxBodyBytes),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPassword()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Edura Authentication Service API
//	@version		0.1.0
//	@description	Account registration, login and password recovery for Edura.
//	@description
//	@description				Tokens are HS256 signed JWTs. Present them as "Authorization: Bearer {token}".
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/edura
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)

	// POST /login - strict by IP, and by username alone so rotating
	// addresses does not reset the budget for one account
	loginHandler := &LoginHandler{
		AuthService:  r.AuthService,
		SupportEmail: r.SupportEmail,
	}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
			httpx.RateLimitByJSONField(r.StrictLimit, "username"),
		),
	)

	// GET /me - authenticated, lenient rate limit
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(&MeHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
}

func (r *Router) registerPassword() {
	forgotHandler := &ForgotPasswordHandler{
		AuthService:       r.AuthService,
		ExposeErrorDetail: r.ExposeErrorDetail,
	}
	r.Mux.Handle("POST /api/auth/forgot-password",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)

	r.Mux.Handle("POST /api/auth/reset-password",
		httpx.Chain(&ResetPasswordHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.StrictLimit, r.TrustedProxies),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.LenientLimit, r.TrustedProxies),
		),
	)
}
