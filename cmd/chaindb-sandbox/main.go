package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
	"github.com/chaindb/chaindb_sdk_go/internal/devseed"
	"github.com/chaindb/chaindb_sdk_go/internal/logger"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb/mock"
	"github.com/chaindb/chaindb_sdk_go/pkg/sdk"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":2818", "listen address")
	seedPath := flag.String("seed", "", "path to JSON seed for the in-memory server")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	logger.Configure()

	m := mock.New()
	if *seedPath != "" {
		seed, err := devseed.Load(*seedPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load seed")
		}
		if err := m.Seed(seed); err != nil {
			log.Fatal().Err(err).Msg("apply seed")
		}
		log.Info().Str("path", *seedPath).Int("databases", len(seed.Databases)).Msg("seed applied")
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		log.Fatal().Err(err).Msg("parse fail flag")
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           withMiddleware(*latency, failCfg, mock.Handler(m)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", *addr).Msg("chaindb-sandbox listening")
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Println()
	fmt.Printf("export %s=%s\n", sdk.EnvMode, sdk.ModeHTTP)
	fmt.Printf("export %s=http://%s\n", sdk.EnvURL, host)
	fmt.Println()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withMiddleware(delay time.Duration, failCfg failConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if delay > 0 {
			time.Sleep(delay)
		}
		if failCfg.rate > 0 && rand.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			body, _ := chainapi.Fail("failure injected")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write(body)
			log.Warn().Str("method", r.Method).Str("path", logger.MaskPath(r.URL.EscapedPath())).Int("status", status).Msg("failure injected")
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", logger.MaskPath(r.URL.EscapedPath())).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyVal := strings.SplitN(part, "=", 2)
		if len(keyVal) != 2 {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		switch strings.TrimSpace(keyVal[0]) {
		case "rate":
			val, err := strconv.ParseFloat(strings.TrimSpace(keyVal[1]), 64)
			if err != nil {
				return failConfig{}, err
			}
			if val < 0 || val > 1 {
				return failConfig{}, fmt.Errorf("fail rate %v out of range [0,1]", val)
			}
			cfg.rate = val
		case "code":
			val, err := strconv.Atoi(strings.TrimSpace(keyVal[1]))
			if err != nil {
				return failConfig{}, err
			}
			cfg.code = val
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", keyVal[0])
		}
	}
	return cfg, nil
}
