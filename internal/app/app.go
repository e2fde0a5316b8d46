package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
	"github.com/haliaxis/triarb/internal/venue"
	"github.com/haliaxis/triarb/pkg/config"
	"github.com/haliaxis/triarb/pkg/healthprobe"
	"github.com/haliaxis/triarb/pkg/httpserver"
)

// App is the main application orchestrator: it wires one venue adapter,
// one trade record sink, and the execution Controller behind them, plus
// the ambient HTTP/health surface.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	adapter       venue.Adapter
	sink          execution.Sink
	controller    *execution.Controller
	demo          *demoFeed // non-nil only when Options.Simulate is set
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// Simulate selects the in-memory SimulatedAdapter and starts a demo
	// feed that submits a canned opportunity on an interval, instead of
	// wiring the REST adapter and waiting on an external Detector.
	Simulate bool
}
