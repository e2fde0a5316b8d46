package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
	"github.com/haliaxis/triarb/internal/opportunity"
	"github.com/haliaxis/triarb/internal/venue"
)

// demoFeed stands in for the external Detector (§1 non-goal: opportunity
// discovery is out of scope) when the engine is run with `cmd simulate`.
// It resubmits the spec's S1 scenario on an interval so the state machine,
// metrics, and HTTP surface can be exercised end to end without a live
// exchange connection.
type demoFeed struct {
	controller *execution.Controller
	logger     *zap.Logger
	interval   time.Duration
	stop       chan struct{}
	wg         sync.WaitGroup
}

func newDemoFeed(controller *execution.Controller, logger *zap.Logger) *demoFeed {
	return &demoFeed{
		controller: controller,
		logger:     logger,
		interval:   3 * time.Second,
		stop:       make(chan struct{}),
	}
}

func (d *demoFeed) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			case <-ticker.C:
				opp := demoOpportunity()
				result := d.controller.Admit(ctx, opp)
				d.logger.Info("demo-opportunity-admitted",
					zap.String("opportunity", opp.ID),
					zap.String("result", string(result)))
			}
		}
	}()
}

func (d *demoFeed) Close() error {
	close(d.stop)
	d.wg.Wait()
	return nil
}

// demoOpportunity builds spec.md scenario S1: USDT->KCS->BTC->USDT,
// funding 20 USDT.
func demoOpportunity() *opportunity.Opportunity {
	return opportunity.New(
		"kucoin",
		[3]string{"USDT", "KCS", "BTC"},
		[3]opportunity.Step{
			{Symbol: "KCS-USDT", Side: opportunity.Buy},
			{Symbol: "KCS-BTC", Side: opportunity.Sell},
			{Symbol: "BTC-USDT", Side: opportunity.Sell},
		},
		20.0,
	)
}

// seedDemoOrderbooks primes sim with the S1 scenario's top-of-book levels
// and fee model so the demo feed reproduces the spec's documented
// ~0.208% net profit.
func seedDemoOrderbooks(sim *venue.SimulatedAdapter) {
	sim.SetOrderbook("KCS-USDT", []venue.PriceLevel{{Price: 9.99, Size: 100}}, []venue.PriceLevel{{Price: 10.0, Size: 100}})
	sim.SetOrderbook("KCS-BTC", []venue.PriceLevel{{Price: 0.00020, Size: 100}}, []venue.PriceLevel{{Price: 0.00021, Size: 100}})
	sim.SetOrderbook("BTC-USDT", []venue.PriceLevel{{Price: 50200, Size: 100}}, []venue.PriceLevel{{Price: 50210, Size: 100}})
	sim.SetFeeRule("KCS-USDT", 0.0008, "KCS")
	sim.SetFeeRule("KCS-BTC", 0.0008, "KCS")
	sim.SetFeeRule("BTC-USDT", 0.0008, "KCS")
	sim.SetFeeDiscountActive(true)
}
