package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context, time.Duration) error { return f.err }

func startHealth(t *testing.T, p Pinger) (*HealthServer, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 16)
	ctx, cancel := context.WithCancel(context.Background())
	s := NewHealthServer(p, nil, time.Hour)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.ServeListener(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return s, healthpb.NewHealthClient(conn)
}

func status(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatal(err)
	}
	return resp.GetStatus()
}

func TestHealthServing(t *testing.T) {
	_, c := startHealth(t, &fakePinger{})
	if got := status(t, c, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", got)
	}
	if got := status(t, c, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("service status = %v", got)
	}
}

func TestHealthFollowsJournal(t *testing.T) {
	p := &fakePinger{err: errors.New("journal down")}
	s, c := startHealth(t, p)
	if got := status(t, c, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status = %v", got)
	}
	p.err = nil
	if !s.Check(context.Background()) {
		t.Fatal("check should pass once the journal is back")
	}
	if got := status(t, c, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", got)
	}
}

func TestRedact(t *testing.T) {
	tests := map[string]string{
		"postgres://scan:secret@db:5432/journal": "postgres://scan:xxxxx@db:5432/journal",
		"scanrename.db":                          "scanrename.db",
		":memory:":                               ":memory:",
	}
	for in, want := range tests {
		if got := redact(in); got != want {
			t.Errorf("redact(%q) = %q, want %q", in, got, want)
		}
	}
}
