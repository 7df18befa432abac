package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/geoip"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck is a named dependency check, e.g. a store or redis ping.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Handler struct {
	geoIp        *geoip.Api
	versionInfo  string
	healthChecks []HealthCheck
}

func NewHandler(
	geoIp *geoip.Api,
	versionInfo string,
	healthChecks ...HealthCheck,
) *Handler {
	return &Handler{
		geoIp:        geoIp,
		versionInfo:  versionInfo,
		healthChecks: healthChecks,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
	if handler.geoIp != nil {
		mainRouter.HandleFunc("/whereami", handler.handleWhereAmI).Methods("GET").Name("whereami")
	}
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status: "ok",
		Checks: make(map[string]string, len(handler.healthChecks)),
	}
	for _, hc := range handler.healthChecks {
		if err := hc.Check(ctx); err != nil {
			log.Errorf("health check [%s] failed: %s", hc.Name, err)
			resp.Checks[hc.Name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[hc.Name] = "ok"
	}

	statusCode := http.StatusOK
	if resp.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}
	span.SetAttributes(attribute.String("health.status", resp.Status))
	pkg.WriteJSON(w, resp, statusCode)
}

func (handler *Handler) handleWhereAmI(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.whereAmI")
	defer span.End()

	userIP, err := pkg.ReadUserIP(r)
	if err != nil {
		http.Error(w, "geo ip info error", http.StatusBadRequest)
		return
	}

	ipInfo, err := handler.geoIp.GetIPGeoInfo(ctx, userIP)
	if err != nil {
		log.Errorf("error getting geo ip info: %s", err)
		http.Error(w, "geo ip info error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.city", ipInfo.City))
	span.SetAttributes(attribute.String("user.country", ipInfo.Country))
	pkg.WriteJSON(w, map[string]string{"city": ipInfo.City, "country": ipInfo.Country}, http.StatusOK)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusBadRequest)
		return
	}
	pkg.WriteTextResponseOK(w, ip)
}
