// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package api provides the HTTP surface of the platform using the Chi
// router. Public catalog reads are served through the tag-indexed cache;
// every reward mutation goes through the reward service so invalidation,
// event publication, and frontend revalidation stay consistent.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/playforge/playforge/internal/auth"
	"github.com/playforge/playforge/internal/banlist"
	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/games"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
	"github.com/playforge/playforge/internal/middleware"
	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/reward"
	"github.com/playforge/playforge/internal/telegram"
	"github.com/playforge/playforge/internal/websocket"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	db      *database.DB
	cache   *cache.Cache
	cfg     *config.Config
	rewards *reward.Service
	games   *games.Service
	hub     *websocket.Hub
	bans    *banlist.Store
	jwt     *auth.JWTManager
	creds   *auth.CredentialChecker
	bot     *telegram.Bot

	startedAt time.Time
}

// NewHandler creates the API handler. bot may be nil when the Telegram
// integration is disabled.
func NewHandler(
	db *database.DB,
	c *cache.Cache,
	cfg *config.Config,
	rewards *reward.Service,
	gamesSvc *games.Service,
	hub *websocket.Hub,
	bans *banlist.Store,
	jwtManager *auth.JWTManager,
	creds *auth.CredentialChecker,
	bot *telegram.Bot,
) *Handler {
	return &Handler{
		db:        db,
		cache:     c,
		cfg:       cfg,
		rewards:   rewards,
		games:     gamesSvc,
		hub:       hub,
		bans:      bans,
		jwt:       jwtManager,
		creds:     creds,
		bot:       bot,
		startedAt: time.Now(),
	}
}

// Routes builds the full Chi routing tree.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order. CORS must be
	// global so OPTIONS preflights are answered before routing.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	// Health endpoints get a permissive limit so monitoring can poll
	// frequently without being able to hammer the process.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(h.rateLimit(1000, time.Minute))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Login gets the strictest limit to blunt brute forcing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(h.rateLimit(5, 5*time.Minute))
		r.Post("/login", h.Login)
	})

	// Public platform surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.rateLimit(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/ranks", h.GetRanks)
		r.Get("/sponsors", h.GetSponsors)
		r.Get("/social", h.GetSocialLinks)
		r.Get("/users/{id}/profile", h.GetProfile)
		r.Get("/users/{id}/history", h.GetPointHistory)

		r.Route("/wheel", func(r chi.Router) {
			r.Get("/", h.GetWheel)
			r.Post("/spin", h.SpinWheel)
			r.Get("/history", h.GetSpinHistory)
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/", h.GetShop)
			r.Post("/purchase", h.PurchaseItem)
			r.Get("/purchases", h.GetPurchases)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.GetTasks)
			r.Post("/claim", h.ClaimTask)
		})

		r.Post("/promo/redeem", h.RedeemPromocode)

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.GetTicketEvents)
			r.Post("/buy", h.BuyTickets)
			r.Get("/mine", h.GetMyTickets)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/history", h.GetGameHistory)
			r.Post("/blackjack", h.StartBlackjack)
			r.Post("/blackjack/{round}/hit", h.BlackjackHit)
			r.Post("/blackjack/{round}/stand", h.BlackjackStand)
			r.Post("/roulette", h.PlayRoulette)
			r.Post("/mines", h.StartMines)
			r.Post("/mines/{round}/reveal", h.MinesReveal)
			r.Post("/mines/{round}/cashout", h.MinesCashout)
		})

		r.Get("/ws", h.WebSocket)

		if h.bot != nil {
			r.Post("/telegram/webhook", h.bot.WebhookHandler())
		}
	})

	// Back office. Every route requires an admin JWT.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(h.rateLimit(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.AdminJWT(h.jwt))

		r.Get("/users", h.AdminListUsers)
		r.Post("/users/{id}/adjust", h.AdminAdjustPoints)
		r.Post("/users/{id}/ban", h.AdminBanUser)
		r.Post("/users/{id}/unban", h.AdminUnbanUser)
		r.Get("/bans", h.AdminListBans)

		h.crudRoutes(r, "/wheel/prizes", crud{
			list: h.AdminListPrizes, create: h.AdminCreatePrize,
			update: h.AdminUpdatePrize, del: h.AdminDeletePrize,
		})
		h.crudRoutes(r, "/shop/items", crud{
			list: h.AdminListItems, create: h.AdminCreateItem,
			update: h.AdminUpdateItem, del: h.AdminDeleteItem,
		})
		h.crudRoutes(r, "/tasks", crud{
			list: h.AdminListTasks, create: h.AdminCreateTask,
			update: h.AdminUpdateTask, del: h.AdminDeleteTask,
		})
		h.crudRoutes(r, "/ranks", crud{
			list: h.AdminListRanks, create: h.AdminCreateRank,
			update: h.AdminUpdateRank, del: h.AdminDeleteRank,
		})
		h.crudRoutes(r, "/promocodes", crud{
			list: h.AdminListPromocodes, create: h.AdminCreatePromocode,
			update: h.AdminUpdatePromocode, del: h.AdminDeletePromocode,
		})
		r.Route("/sponsors", func(r chi.Router) {
			r.Get("/", h.AdminListSponsors)
			r.Post("/", h.AdminCreateSponsor)
			r.Put("/reorder", h.AdminReorderSponsors)
			r.Put("/{id}", h.AdminUpdateSponsor)
			r.Delete("/{id}", h.AdminDeleteSponsor)
		})
		h.crudRoutes(r, "/social", crud{
			list: h.AdminListSocialLinks, create: h.AdminCreateSocialLink,
			update: h.AdminUpdateSocialLink, del: h.AdminDeleteSocialLink,
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.AdminListTicketEvents)
			r.Post("/", h.AdminCreateTicketEvent)
			r.Post("/{id}/close", h.AdminCloseTicketEvent)
			r.Post("/{id}/draw", h.AdminDrawWinner)
		})

		r.Post("/broadcast", h.AdminBroadcast)
		r.Post("/cache/flush", h.AdminFlushCache)
		r.Get("/cache/stats", h.AdminCacheStats)
	})

	return r
}

// crud bundles the four handlers of a catalog resource.
type crud struct {
	list   http.HandlerFunc
	create http.HandlerFunc
	update http.HandlerFunc
	del    http.HandlerFunc
}

func (h *Handler) crudRoutes(r chi.Router, pattern string, c crud) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", c.list)
		r.Post("/", c.create)
		r.Put("/{id}", c.update)
		r.Delete("/{id}", c.del)
	})
}

// rateLimit returns an IP-keyed limiter for a route group. Limited requests
// get the standard error envelope and a metric increment.
func (h *Handler) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if h.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
		}),
	)
}

// requireActiveUser resolves a user id to a user row, rejecting the request
// when the id is invalid, unknown, or banned. It writes the error response
// itself and returns ok=false in that case.
func (h *Handler) requireActiveUser(w http.ResponseWriter, r *http.Request, userID int64) (*models.User, bool) {
	if userID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_USER", "user_id must be a positive integer", nil)
		return nil, false
	}

	if h.bans != nil {
		banned, err := h.bans.IsBanned(userID)
		if err != nil {
			logging.Warn().Err(err).Int64("user_id", userID).Msg("Banlist lookup failed")
		} else if banned {
			respondError(w, http.StatusForbidden, "USER_BANNED", "User is banned", nil)
			return nil, false
		}
	}

	user, err := h.db.GetUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	if user.IsBanned {
		respondError(w, http.StatusForbidden, "USER_BANNED", "User is banned", nil)
		return nil, false
	}
	return user, true
}
