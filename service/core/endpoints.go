package core

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	ex "stockanalyzer/data/extensions"
	"stockanalyzer/service/logging"
	"stockanalyzer/service/market"
	m "stockanalyzer/service/models"
)

const (
	DefaultAddr   = ":8080"
	healthTimeout = 2 * time.Second
)

var DefaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

func GetHttpServer(sc *ServiceContext, addr string, origins []string) *http.Server {
	if addr == "" {
		addr = DefaultAddr
	}

	// bulk analysis may wait on several provider calls, hence the long write timeout
	return &http.Server{
		Addr:              addr,
		Handler:           sc.Router(origins),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      90 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func (sc *ServiceContext) Router(origins []string) http.Handler {
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(sc.logger()))
	r.Use(sc.observeRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, m.GetServiceResponseError("Endpoint not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, m.GetServiceResponseError("Method not allowed"))
	})

	r.Get("/", sc.index)
	r.Get("/health", sc.health)
	if sc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", sc.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", sc.register)
		r.Post("/auth/login", sc.login)

		r.Group(func(r chi.Router) {
			r.Use(sc.Authenticate)

			r.Get("/auth/me", sc.me)

			r.Get("/watchlist", sc.getWatchlist)
			r.Post("/watchlist", sc.addToWatchlist)
			r.Delete("/watchlist/{symbol}", sc.removeFromWatchlist)
			r.Get("/watchlist/{symbol}/check", sc.checkWatchlist)

			r.Get("/notifications", sc.getNotifications)
			r.Get("/notifications/unread/count", sc.getUnreadCount)
			r.Put("/notifications/read-all", sc.markAllRead)
			r.Put("/notifications/{id}/read", sc.markRead)

			r.Get("/alerts", sc.getAlerts)
			r.Post("/alerts", sc.createAlert)
			r.Delete("/alerts/{id}", sc.deleteAlert)

			r.Get("/stocks", sc.getStocks)
			r.Get("/stock/{symbol}", sc.getStock)
			r.Get("/stock/{symbol}/history", sc.getHistory)
			r.Get("/stock/{symbol}/history/detailed", sc.getDetailedHistory)
			r.Get("/stock/{symbol}/history/ohlc", sc.getOHLCHistory)
			r.Get("/stock/{symbol}/live", sc.getLivePrice)

			r.Get("/analyze/bulk", sc.analyzeBulk)
			r.Get("/analyze/advanced/{symbol}", sc.analyze)
			r.Get("/analyze/{symbol}", sc.analyze)

			r.Get("/portfolio", sc.getPortfolio)
			r.Get("/portfolio/performance", sc.getPerformance)
			r.Post("/portfolio/holdings", sc.addHolding)
			r.Put("/portfolio/holdings/{id}", sc.updateHolding)
			r.Delete("/portfolio/holdings/{id}", sc.deleteHolding)

			r.Get("/user/profile", sc.getProfile)
			r.Put("/user/profile", sc.updateProfile)
			r.Get("/user/preferences", sc.getPreferences)
			r.Put("/user/preferences", sc.updatePreferences)
		})
	})

	return r
}

// observeRequests records request metrics labelled by route pattern
func (sc *ServiceContext) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		sc.Metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}

type serviceIndex struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (sc *ServiceContext) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceIndex{
		Message: "Stock Analyzer API",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"auth":          "/api/auth",
			"stocks":        "/api/stock",
			"analysis":      "/api/analyze",
			"watchlist":     "/api/watchlist",
			"notifications": "/api/notifications",
			"alerts":        "/api/alerts",
			"portfolio":     "/api/portfolio",
			"profile":       "/api/user/profile",
		},
	})
}

type healthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

func (sc *ServiceContext) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := sc.Store.Ping(ctx); err != nil {
		sc.logger().Warn("health check database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthStatus{
			Status:   "degraded",
			Message:  "Database unavailable",
			Database: "down",
		})
		return
	}

	writeJSON(w, http.StatusOK, healthStatus{
		Status:   "healthy",
		Message:  "Stock Analyzer Backend is running",
		Database: "up",
	})
}

// auth

func (sc *ServiceContext) register(w http.ResponseWriter, r *http.Request) {
	var req m.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Registration failed")
		return
	}

	res, err := sc.Register(r.Context(), req)
	if err != nil {
		sc.writeError(w, r, err, "Registration failed")
		return
	}
	writeOk(w, http.StatusCreated, res, "")
}

func (sc *ServiceContext) login(w http.ResponseWriter, r *http.Request) {
	var req m.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Login failed")
		return
	}

	res, err := sc.Login(r.Context(), req)
	if err != nil {
		sc.writeError(w, r, err, "Login failed")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

func (sc *ServiceContext) me(w http.ResponseWriter, r *http.Request) {
	res, err := sc.CurrentUser(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to get user data")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

// watchlist

func (sc *ServiceContext) getWatchlist(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Watchlist(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to fetch watchlist")
		return
	}
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req m.WatchlistAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to add to watchlist")
		return
	}

	res, message, err := sc.AddToWatchlist(r.Context(), userIdFrom(r.Context()), req)
	if err != nil {
		sc.writeError(w, r, err, "Failed to add to watchlist")
		return
	}
	writeOk(w, http.StatusOK, res, message)
}

func (sc *ServiceContext) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	message, err := sc.RemoveFromWatchlist(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "symbol"))
	if err != nil {
		sc.writeError(w, r, err, "Failed to remove from watchlist")
		return
	}
	writeMessage(w, message)
}

func (sc *ServiceContext) checkWatchlist(w http.ResponseWriter, r *http.Request) {
	res, err := sc.CheckWatchlist(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "symbol"))
	if err != nil {
		sc.writeError(w, r, err, "Failed to check watchlist")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

// notifications and alerts

func (sc *ServiceContext) getNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread_only"))

	res, err := sc.Notifications(r.Context(), userIdFrom(r.Context()), unreadOnly)
	if err != nil {
		sc.writeError(w, r, err, "Failed to fetch notifications")
		return
	}
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) getUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := sc.UnreadNotificationCount(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to get unread count")
		return
	}
	writeOk(w, http.StatusOK, &count, "")
}

func (sc *ServiceContext) markRead(w http.ResponseWriter, r *http.Request) {
	if err := sc.MarkNotificationRead(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		sc.writeError(w, r, err, "Failed to mark notification as read")
		return
	}
	writeMessage(w, "Notification marked as read")
}

func (sc *ServiceContext) markAllRead(w http.ResponseWriter, r *http.Request) {
	res, err := sc.MarkAllNotificationsRead(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to mark notifications as read")
		return
	}
	writeOk(w, http.StatusOK, res, "All notifications marked as read")
}

func (sc *ServiceContext) getAlerts(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Alerts(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to get alerts")
		return
	}
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) createAlert(w http.ResponseWriter, r *http.Request) {
	var req m.AlertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to create alert")
		return
	}

	res, err := sc.CreateAlert(r.Context(), userIdFrom(r.Context()), req)
	if err != nil {
		sc.writeError(w, r, err, "Failed to create alert")
		return
	}
	writeOk(w, http.StatusCreated, res, "Alert created successfully")
}

func (sc *ServiceContext) deleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := sc.DeleteAlert(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		sc.writeError(w, r, err, "Failed to delete alert")
		return
	}
	writeMessage(w, "Alert deleted successfully")
}

// stocks

func (sc *ServiceContext) getStock(w http.ResponseWriter, r *http.Request) {
	quote, ok := sc.Quotes.Lookup(r.Context(), chi.URLParam(r, "symbol"))
	if !ok {
		sc.writeError(w, r, notFound("Stock not found"), "Failed to fetch stock")
		return
	}
	writeOk(w, http.StatusOK, quote, "")
}

func (sc *ServiceContext) getStocks(w http.ResponseWriter, r *http.Request) {
	symbols := ex.SplitSymbols(r.URL.Query().Get("symbols"), market.DefaultQuoteSymbols)
	res := sc.Quotes.LookupMany(r.Context(), symbols)
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) getHistory(w http.ResponseWriter, r *http.Request) {
	period := market.ParsePeriod(r.URL.Query().Get("period"), market.Period6M)
	res := sc.History.History(r.Context(), chi.URLParam(r, "symbol"), period)
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) getDetailedHistory(w http.ResponseWriter, r *http.Request) {
	period := market.ParsePeriod(r.URL.Query().Get("period"), market.Period6M)
	res := sc.History.Detailed(r.Context(), chi.URLParam(r, "symbol"), period)
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) getOHLCHistory(w http.ResponseWriter, r *http.Request) {
	period := market.ParsePeriod(r.URL.Query().Get("period"), market.Period3M)
	res := sc.History.OHLC(r.Context(), chi.URLParam(r, "symbol"), period)
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) getLivePrice(w http.ResponseWriter, r *http.Request) {
	quote, ok := sc.Quotes.Lookup(r.Context(), chi.URLParam(r, "symbol"))
	if !ok {
		sc.writeError(w, r, notFound("Stock not found"), "Failed to fetch live price")
		return
	}
	writeOk(w, http.StatusOK, &m.LivePrice{
		Symbol:      quote.Symbol,
		Price:       quote.Price,
		LastUpdated: ex.FmtLong(sc.clock()),
	}, "")
}

// analysis

func (sc *ServiceContext) analyze(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	if symbol == "" {
		sc.writeError(w, r, badRequest("Symbol is required"), "Failed to analyze stock")
		return
	}
	res := sc.Analyzer.Analyze(r.Context(), symbol)
	writeOk(w, http.StatusOK, &res, "")
}

func (sc *ServiceContext) analyzeBulk(w http.ResponseWriter, r *http.Request) {
	symbols := ex.SplitSymbols(r.URL.Query().Get("symbols"), market.DefaultAnalysisSymbols)
	res := sc.Analyzer.AnalyzeBulk(r.Context(), symbols)
	writeOk(w, http.StatusOK, &res, "")
}

// portfolio

func (sc *ServiceContext) getPortfolio(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Portfolio(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to fetch portfolio")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

func (sc *ServiceContext) getPerformance(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Performance(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to fetch portfolio performance")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

func (sc *ServiceContext) addHolding(w http.ResponseWriter, r *http.Request) {
	var req m.HoldingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to add holding")
		return
	}

	res, err := sc.AddHolding(r.Context(), userIdFrom(r.Context()), req)
	if err != nil {
		sc.writeError(w, r, err, "Failed to add holding")
		return
	}
	writeOk(w, http.StatusOK, res, "Holding added successfully")
}

func (sc *ServiceContext) updateHolding(w http.ResponseWriter, r *http.Request) {
	var req m.HoldingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to update holding")
		return
	}

	if err := sc.UpdateHolding(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "id"), req); err != nil {
		sc.writeError(w, r, err, "Failed to update holding")
		return
	}
	writeMessage(w, "Holding updated successfully")
}

func (sc *ServiceContext) deleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := sc.DeleteHolding(r.Context(), userIdFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		sc.writeError(w, r, err, "Failed to remove holding")
		return
	}
	writeMessage(w, "Holding removed successfully")
}

// profile

func (sc *ServiceContext) getProfile(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Profile(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to get profile")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

func (sc *ServiceContext) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req m.ProfileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to update profile")
		return
	}

	res, err := sc.UpdateProfile(r.Context(), userIdFrom(r.Context()), req)
	if err != nil {
		sc.writeError(w, r, err, "Failed to update profile")
		return
	}
	writeOk(w, http.StatusOK, res, "Profile updated successfully")
}

func (sc *ServiceContext) getPreferences(w http.ResponseWriter, r *http.Request) {
	res, err := sc.Preferences(r.Context(), userIdFrom(r.Context()))
	if err != nil {
		sc.writeError(w, r, err, "Failed to get preferences")
		return
	}
	writeOk(w, http.StatusOK, res, "")
}

func (sc *ServiceContext) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req m.PreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sc.writeError(w, r, err, "Failed to update preferences")
		return
	}

	res, message, err := sc.UpdatePreferences(r.Context(), userIdFrom(r.Context()), req)
	if err != nil {
		sc.writeError(w, r, err, "Failed to update preferences")
		return
	}
	writeOk(w, http.StatusOK, res, message)
}
