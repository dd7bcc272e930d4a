package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/planejaedu/identity/internal/engine/config"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
)

// debugServer is the operations listener: /metrics always, /debug/pprof/*
// only when debug.pprof is set. It binds to loopback unless configured.
type debugServer struct {
	conf config.DebugConf
	srv  *http.Server
	addr string
}

func newDebugServer(conf config.DebugConf, m *metrics.Metrics) *debugServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	if conf.Pprof {
		// Index resolves the named profiles (heap, goroutine, allocs ...)
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return &debugServer{
		conf: conf,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
}

// start binds before returning so a taken port fails startup.
func (d *debugServer) start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", d.conf.Host, d.conf.Port))
	if err != nil {
		return fmt.Errorf("debug listener: %w", err)
	}
	d.addr = ln.Addr().String()
	go func() {
		log.Infow("debug listener started", "address", d.addr, "pprof", d.conf.Pprof)
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("debug listener stopped", "address", d.addr, "error", err)
		}
	}()
	return nil
}

func (d *debugServer) stop(ctx context.Context) error {
	return d.srv.Shutdown(ctx)
}
