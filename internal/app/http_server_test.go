package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	healthcheck "github.com/vladislavdragonenkov/marketplace/internal/health"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/marketplace/internal/service/grpc"
	"github.com/vladislavdragonenkov/marketplace/internal/service/httpapi"
	"github.com/vladislavdragonenkov/marketplace/internal/service/marketplace"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
	"github.com/vladislavdragonenkov/marketplace/internal/version"
)

// waitForHTTP ждёт, пока сервер начнёт отвечать на url.
func waitForHTTP(t *testing.T, url string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server at %s did not start", url)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	return getAs(t, url, "")
}

func getAs(t *testing.T, url, identity string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if identity != "" {
		req.Header.Set("X-Caller-Id", identity)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestStartMetricsServer_ReadinessFollowsStorage(t *testing.T) {
	logger := log.WithField("test", "metrics-server")
	addr := fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	base := "http://" + addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Метрики outbox регистрируются в глобальном registry и видны на /metrics.
	metrics.NewOutboxMetrics()

	var storageDown atomic.Bool
	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewPingChecker("storage", func(context.Context) error {
		if storageDown.Load() {
			return errors.New("connection refused")
		}
		return nil
	}, time.Second))

	startMetricsServer(ctx, addr, logger, healthHandler)
	waitForHTTP(t, base+"/livez")

	code, body := get(t, base+"/metrics")
	if code != http.StatusOK || !strings.Contains(body, "marketplace_outbox_pending_records") {
		t.Fatalf("expected marketplace metrics, got %d", code)
	}

	if code, body := get(t, base+"/livez"); code != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected /livez: %d %q", code, body)
	}
	if code, _ := get(t, base+"/readyz"); code != http.StatusOK {
		t.Fatalf("expected ready storage, got %d", code)
	}

	storageDown.Store(true)
	if code, _ := get(t, base+"/readyz"); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from /readyz when storage is down, got %d", code)
	}
	if code, body := get(t, base+"/healthz"); code != http.StatusServiceUnavailable || !strings.Contains(body, "storage") {
		t.Fatalf("expected unhealthy storage in /healthz, got %d %s", code, body)
	}
}

func TestStartMetricsServer_StopsWithContext(t *testing.T) {
	logger := log.WithField("test", "metrics-shutdown")
	addr := fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	url := "http://" + addr + "/livez"

	ctx, cancel := context.WithCancel(context.Background())
	startMetricsServer(ctx, addr, logger, healthcheck.NewHandler(version.GetVersion()))
	waitForHTTP(t, url)

	cancel()
	time.Sleep(200 * time.Millisecond)

	if _, err := http.Get(url); err == nil {
		t.Error("metrics server should be stopped after context cancellation")
	}
}

func TestStartHTTPServer_ServesGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := log.WithField("test", "gateway")
	addr := fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	base := "http://" + addr

	svc := marketplace.New(memory.NewStore(), marketplace.WithLogger(logger))
	router := httpapi.NewRouter(grpcsvc.NewMarketplaceServer(svc, logger), caller.NewVerifier(caller.Config{}), logger)
	srv := startHTTPServer(addr, router, "http gateway", logger)
	waitForHTTP(t, base+"/v1/listings")

	req, err := http.NewRequest(http.MethodPost, base+"/v1/users", bytes.NewBufferString(`{"name":"Alice","role":"seller"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Id", "alice")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("register via gateway: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", resp.StatusCode)
	}

	if code, body := getAs(t, base+"/v1/users/alice", "alice"); code != http.StatusOK || !strings.Contains(body, `"seller"`) {
		t.Fatalf("unexpected user lookup: %d %s", code, body)
	}
	if code, body := get(t, base+"/v1/me/capabilities"); code != http.StatusUnauthorized || !strings.Contains(body, "Unauthenticated") {
		t.Fatalf("expected 401 without caller, got %d %s", code, body)
	}

	shutdownHTTP(srv, time.Second, logger)
	if _, err := http.Get(base + "/v1/listings"); err == nil {
		t.Error("gateway should be stopped after shutdownHTTP")
	}
}

func TestShutdownHTTP_NilServer(_ *testing.T) {
	shutdownHTTP(nil, time.Second, log.WithField("test", "http-nil"))
}

func TestStartHTTPServer_BusyAddrDoesNotPanic(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	logger := log.WithField("test", "http-busy")
	srv := startHTTPServer(busy.Addr().String(), http.NotFoundHandler(), "http gateway", logger)
	if srv == nil {
		t.Fatal("startHTTPServer must return the server even if listen fails")
	}
	shutdownHTTP(srv, time.Second, logger)
}

// findFreePort находит свободный порт для тестов
func findFreePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
