package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

const ipInfoCacheTTL = 7 * 24 * time.Hour

type ipInfoClient interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

type IpInfo struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	CountryName string `json:"country_name"`
	Timezone    string `json:"timezone"`
}

var devGeoIpInfo = IpInfo{
	IP:          "127.0.0.1",
	City:        "Berlin",
	Country:     "DE",
	CountryName: "Germany",
	Timezone:    "Europe/Berlin",
}

type Api struct {
	ipInfo      ipInfoClient
	redisClient *redis.Client
}

func NewApi(
	ipInfoToken string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return &Api{
		ipInfo:      ipinfo.NewClient(httpClient, nil, ipInfoToken),
		redisClient: redisClient,
	}
}

func newApiWithClient(client ipInfoClient, redisClient *redis.Client) *Api {
	return &Api{
		ipInfo:      client,
		redisClient: redisClient,
	}
}

// GetIPGeoInfo resolves the location of the ip, caching the result in redis.
func (gi *Api) GetIPGeoInfo(ctx context.Context, userIp string) (_ *IpInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getIPGeoInfo")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user.ip", userIp))

	// used for development
	if userIp == "localhost" {
		log.Debugf("ip geo info: returning development localhost / Berlin")
		info := devGeoIpInfo
		return &info, nil
	}

	ip := net.ParseIP(userIp)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip: %s", userIp)
	}

	userIpKey := fmt.Sprintf("ip-info::%s", userIp)
	cached, err := gi.redisClient.Get(ctx, userIpKey).Bytes()
	switch {
	case err == nil:
		info := &IpInfo{}
		if err := json.Unmarshal(cached, info); err == nil {
			span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
			log.Tracef("found geo ip info for [%s] in redis cache", userIp)
			return info, nil
		}
		log.Errorf("failed to unmarshal cached ip info for %s: %s", userIp, err)
	case !errors.Is(err, redis.Nil):
		log.Errorf("failed to find ip info from redis for [%s]: %s", userIpKey, err)
	}
	span.SetAttributes(attribute.Bool("user.ip.from-cache", false))

	core, err := gi.ipInfo.GetIPInfo(ip)
	if err != nil {
		return nil, fmt.Errorf("get ip info: %w", err)
	}

	info := &IpInfo{
		IP:          userIp,
		City:        core.City,
		Region:      core.Region,
		Country:     core.Country,
		CountryName: core.CountryName,
		Timezone:    core.Timezone,
	}

	infoBytes, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal ip info: %w", err)
	}
	if err := gi.redisClient.Set(ctx, userIpKey, infoBytes, ipInfoCacheTTL).Err(); err != nil {
		log.Errorf("failed to cache ip info in redis for %s: %s", userIp, err)
	}

	return info, nil
}

// Country returns the ISO country code of the ip.
func (gi *Api) Country(ctx context.Context, userIp string) (string, error) {
	info, err := gi.GetIPGeoInfo(ctx, userIp)
	if err != nil {
		return "", err
	}
	return info.Country, nil
}
