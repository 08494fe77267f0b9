package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/foodorders/internal/httpx"
	"github.com/MikeMC777/foodorders/internal/telemetry"
)

const (
	serviceName  = "order-service"
	sweepEvery   = time.Hour
	drainTimeout = 10 * time.Second
)

// serve runs the HTTP API, the gRPC health service and the expired-cart
// sweeper until ctx is cancelled.
func serve(ctx context.Context, a *app) error {
	shutdownTracing, err := telemetry.Setup(ctx, a.cfg.OtelExporter, a.cfg.OtelEndpoint, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("[telemetry] shutdown: %v", err)
		}
	}()

	httpx.UseJSONFieldNames()
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(newRouter(a), serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", a.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	errc := make(chan error, 2)
	go func() {
		log.Printf("[grpc] health listening on %s", a.cfg.GRPCAddr)
		if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errc <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		log.Printf("%s listening on %s", serviceName, a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http: %w", err)
		}
	}()
	go sweepCarts(ctx, a)

	select {
	case <-ctx.Done():
		log.Printf("[app] shutting down")
	case err = <-errc:
		log.Printf("[app] %v", err)
	}

	hs.Shutdown()
	sctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if serr := srv.Shutdown(sctx); serr != nil {
		log.Printf("[http] shutdown: %v", serr)
	}
	gs.GracefulStop()
	return err
}

func sweepCarts(ctx context.Context, a *app) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.carts.CleanExpired(ctx); err != nil {
				log.Printf("[cart] sweep: %v", err)
			}
		}
	}
}
