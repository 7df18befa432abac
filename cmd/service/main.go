package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/logging"
	"github.com/2beens/portfolio/pkg"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.Secrets.SentryDSN,
		SentryServerName: "portfolio-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using document store: [%s]", cfg.DBDriver)

	if cfg.Secrets.JWTSecret == "" {
		log.Fatalln("jwt secret not set. use PORTFOLIO_JWT_SECRET")
	}
	if cfg.Secrets.RedisPassword == "" {
		log.Errorf("redis password not set. use PORTFOLIO_REDIS_PASS")
	}
	if cfg.Secrets.HoneycombEnabled && cfg.Secrets.HoneycombAPIKey == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}
	if len(cfg.AdminEmails) == 0 {
		log.Warnln("no admin emails configured, nobody will get the admin role")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	if err := pkg.EnsureDir(cfg.UploadsPath); err != nil {
		log.Fatalf("uploads dir [%s]: %s", cfg.UploadsPath, err)
	}
	log.Printf("uploads dir: %s", cfg.UploadsPath)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:      cfg,
			VersionInfo: versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	if err := server.Serve(cfg.Host, cfg.Port); err != nil {
		log.Fatalf("serve: %s", err)
	}

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
