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
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/notesbox/internal/config"
	"github.com/2beens/notesbox/internal/db"
	"github.com/2beens/notesbox/internal/middleware"
	"github.com/2beens/notesbox/internal/misc"
	notesBox "github.com/2beens/notesbox/internal/notes_box"
	"github.com/2beens/notesbox/internal/telemetry/metrics"
	"github.com/2beens/notesbox/internal/telemetry/tracing"
	"github.com/2beens/notesbox/internal/web"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	notesStore  notesBox.Store
	renderer    *web.Renderer
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
	}

	var (
		store            notesBox.Store
		pgxpoolCollector prometheus.Collector
	)
	switch cfg.NotesStorage {
	case config.StoragePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)

		store, err = notesBox.NewPsqlStore(ctx, dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("new psql notes store: %w", err)
		}
		log.Debugf("notes stored in postgres [%s:%s/%s]", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName)
	default:
		fileStore, err := notesBox.NewFileStore(cfg.NotesFilePath)
		if err != nil {
			return nil, fmt.Errorf("new file notes store: %w", err)
		}
		store = fileStore
		log.Debugf("notes stored in file [%s]", fileStore.Path())
	}

	s.promRegistry = metrics.SetupPrometheus(pgxpoolCollector)
	s.metricsManager = metrics.NewManager("notesbox", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)
	s.notesStore = notesBox.NewMeteredStore(store, s.metricsManager)

	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdb.AddHook(redisotel.NewTracingHook())

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		s.redisClient = rdb
		s.rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Debugln("redis host not set, using in process rate limiter")
		s.rateLimiter = middleware.NewLocalRateLimiter()
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		s.closeClients()
		return nil, fmt.Errorf("new renderer: %w", err)
	}
	s.renderer = renderer

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "notesbox")
	if err != nil {
		s.closeClients()
		return nil, err
	}
	s.otelShutdown = otelShutdown

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	onEmpty, err := notesBox.ParseOnEmptyPolicy(s.config.NotesOnEmpty)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("notes-router"))

	miscHandler := misc.NewHandler(s.renderer, s.versionInfo)
	miscHandler.SetupRoutes(r)

	notesHandler := notesBox.NewHandler(
		notesBox.NewRetriever(s.notesStore, onEmpty),
		notesBox.NewSubmitter(s.notesStore, notesBox.SubmitterOpts{
			Serialize: s.config.SerializeSubmissions,
		}),
		s.renderer,
		s.metricsManager,
	)

	var submitMiddlewares []mux.MiddlewareFunc
	if s.config.SubmitRateLimitPerMin > 0 {
		submitMiddlewares = append(submitMiddlewares, middleware.RateLimit(
			s.rateLimiter,
			"new-note",
			s.config.SubmitRateLimitPerMin,
			s.metricsManager,
		))
	}
	notesHandler.SetupRoutes(r, submitMiddlewares...)

	r.PathPrefix("/static/").Handler(web.StaticHandler()).Methods("GET").Name("static")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager, s.renderer))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the store clients go away
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

	s.closeClients()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) closeClients() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
		s.redisClient = nil
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		s.dbPool = nil
		log.Debugln("db pool closed")
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
