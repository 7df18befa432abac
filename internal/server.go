package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/portfolio/internal/admin"
	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/cache"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/contact"
	"github.com/2beens/portfolio/internal/db"
	"github.com/2beens/portfolio/internal/geoip"
	"github.com/2beens/portfolio/internal/middleware"
	"github.com/2beens/portfolio/internal/misc"
	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/odm/memstore"
	"github.com/2beens/portfolio/internal/odm/mongostore"
	"github.com/2beens/portfolio/internal/odm/pgstore"
	"github.com/2beens/portfolio/internal/projects"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/internal/uploads"
	"github.com/2beens/portfolio/internal/users"
	"github.com/2beens/portfolio/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	store       odm.Store
	dbPool      *pgxpool.Pool // only set for the postgres driver
	redisClient *redis.Client
	httpClient  *http.Client
	geoIp       *geoip.Api
	cron        *cron.Cron

	usersRepo    *users.Repo
	postsRepo    *blog.Repo
	projectsRepo *projects.Repo
	messagesRepo *contact.Repo
	uploadsRepo  *uploads.Repo

	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := cfg.Secrets

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	store, dbPool, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Infof("using document store driver: %s", store.Driver())

	var collectors []prometheus.Collector
	if dbPool != nil {
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}
	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authService := auth.NewAuthService(secrets.JWTSecret, sessionTTL, rdb)

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		store:       store,
		dbPool:      dbPool,
		redisClient: rdb,
		httpClient:  tracedHttpClient,
		cron:        cron.New(),

		authService:  authService,
		loginChecker: auth.NewLoginChecker(secrets.JWTSecret, sessionTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if secrets.IpInfoAPIKey != "" {
		s.geoIp = geoip.NewApi(secrets.IpInfoAPIKey, tracedHttpClient, rdb)
	} else {
		log.Warnln("IP_INFO_API_KEY not set, geo ip lookups disabled")
	}

	if err := s.setupRepos(ctx); err != nil {
		return nil, err
	}

	if _, err := s.cron.AddFunc(cfg.SessionCleanupCron, s.cleanExpiredSessions); err != nil {
		return nil, fmt.Errorf("schedule session cleanup [%s]: %w", cfg.SessionCleanupCron, err)
	}

	return s, nil
}

// NewStore connects to the document store selected by the db driver config.
func NewStore(ctx context.Context, cfg *config.Config) (odm.Store, *pgxpool.Pool, error) {
	switch cfg.DBDriver {
	case config.DBDriverMongo:
		client, err := db.NewMongoClient(ctx, db.NewMongoClientParams{URI: cfg.MongoURI})
		if err != nil {
			return nil, nil, fmt.Errorf("new mongo client: %w", err)
		}
		return mongostore.New(client, cfg.MongoDBName), nil, nil
	case config.DBDriverPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.Secrets.PostgresUser,
			DBPassword:     cfg.Secrets.PostgresPassword,
			TracingEnabled: cfg.Secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		return pgstore.New(dbPool), dbPool, nil
	default:
		log.Warnln("in-memory document store in use, data will not survive a restart")
		return memstore.New(), nil, nil
	}
}

func (s *Server) setupRepos(ctx context.Context) error {
	s.usersRepo = users.NewRepo(s.store, s.config.AdminEmails)
	s.postsRepo = blog.NewRepo(s.store)
	s.projectsRepo = projects.NewRepo(s.store)
	s.messagesRepo = contact.NewRepo(s.store)
	s.uploadsRepo = uploads.NewRepo(s.store)

	setups := map[string]func(context.Context) error{
		"users":    s.usersRepo.Setup,
		"posts":    s.postsRepo.Setup,
		"projects": s.projectsRepo.Setup,
		"messages": s.messagesRepo.Setup,
		"uploads":  s.uploadsRepo.Setup,
	}
	for name, setup := range setups {
		if err := setup(ctx); err != nil {
			return fmt.Errorf("setup %s repo: %w", name, err)
		}
	}
	return nil
}

func (s *Server) cleanExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cleaned := s.authService.ScanAndClean(ctx)
	s.metricsManager.CounterExpiredSessions.Add(float64(cleaned))
	log.Debugf("session cleanup done, removed: %d", cleaned)
}

func (s *Server) routerSetup() (*mux.Router, error) {
	ipResolver, err := pkg.NewIPResolver(s.config.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginLimiter := middleware.RateLimit(
		reqRateLimiter,
		"auth",
		redis_rate.PerMinute(s.config.LoginRateLimitAllowedPerMin),
		s.metricsManager,
	)
	contactLimiter := middleware.RateLimit(
		reqRateLimiter,
		"contact",
		redis_rate.PerHour(s.config.ContactRateLimitPerHour),
		s.metricsManager,
	)

	authHandler := auth.NewHandler(s.usersRepo, s.authService, s.metricsManager)
	authHandler.SetupRoutes(r, loginLimiter)

	blogHandler := blog.NewBlogHandler(s.postsRepo, s.metricsManager)
	blogHandler.SetupRoutes(r)

	projectsHandler := projects.NewProjectsHandler(
		s.projectsRepo,
		cache.NewResponseCache(s.config.ProjectsCacheSize),
		time.Duration(s.config.ProjectsCacheTTL)*time.Second,
	)
	projectsHandler.SetupRoutes(r)

	contactHandler := contact.NewContactHandler(
		s.messagesRepo,
		s.countryLocator(),
		contact.NewWebhookNotifier(s.config.ContactWebhookURL, s.httpClient),
		s.metricsManager,
	)
	contactHandler.SetupRoutes(r, contactLimiter)

	diskStorage, err := uploads.NewDiskStorage(s.config.UploadsPath)
	if err != nil {
		return nil, fmt.Errorf("new uploads disk storage: %w", err)
	}
	uploadsHandler := uploads.NewUploadsHandler(uploads.NewHandlerParams{
		Repo:           s.uploadsRepo,
		Storage:        diskStorage,
		Processor:      uploads.NewProcessor(s.config.UploadMaxWidth, s.config.ThumbnailWidth),
		BaseURL:        s.config.UploadsBaseURL,
		MaxSizeBytes:   int64(s.config.UploadMaxSizeMB) << 20,
		MetricsManager: s.metricsManager,
	})
	uploadsHandler.SetupRoutes(r)

	adminHandler := admin.NewAdminHandler(admin.NewHandlerParams{
		Posts:    s.postsRepo,
		Projects: s.projectsRepo,
		Messages: s.messagesRepo,
		Uploads:  s.uploadsRepo,
		Users:    s.usersRepo,
	})
	adminHandler.SetupRoutes(r)

	miscHandler := misc.NewHandler(
		s.geoIp,
		s.versionInfo,
		misc.HealthCheck{Name: "store", Check: s.store.Ping},
		misc.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}},
	)
	miscHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker, s.usersRepo)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.ClientIP(ipResolver))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

type countryLocator interface {
	Country(ctx context.Context, ip string) (string, error)
}

// countryLocator returns nil when geo ip is disabled, so the contact
// handler skips the lookup.
func (s *Server) countryLocator() countryLocator {
	if s.geoIp == nil {
		return nil
	}
	return s.geoIp
}

func (s *Server) Serve(host string, port int) error {
	router, err := s.routerSetup()
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.cron.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)

	return nil
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	log.Trace("cron jobs stopped ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if err := s.store.Close(ctx); err != nil {
		log.Errorf("failed to close document store: %s", err)
	}
	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
