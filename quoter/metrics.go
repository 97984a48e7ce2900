package quoter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krazyTry/clmm-go/quoter/shared"
)

// Metrics holds the quoter's collectors. A nil *Metrics records nothing.
type Metrics struct {
	QuoteRequests     *prometheus.CounterVec
	QuoteDuration     *prometheus.HistogramVec
	TickArraysTouched prometheus.Histogram
	SwapSteps         prometheus.Histogram
	LiquidityExceeded prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clmm_quote_requests_total",
				Help: "Total number of swap quotes by swap mode and terminal status",
			},
			[]string{"swap_mode", "status"},
		),
		QuoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clmm_quote_duration_seconds",
				Help:    "Swap quote simulation duration in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
			[]string{"swap_mode"},
		),
		TickArraysTouched: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clmm_quote_tick_arrays_touched",
			Help:    "Distinct tick arrays consulted per quote",
			Buckets: []float64{1, 2, 3, 4},
		}),
		SwapSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clmm_quote_swap_steps",
			Help:    "Swap steps per quote",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		LiquidityExceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "clmm_quote_liquidity_exceeded_total",
			Help: "Quotes that could not fill the requested amount",
		}),
	}
}

func swapMode(amountSpecifiedIsInput bool) string {
	if amountSpecifiedIsInput {
		return "exact_in"
	}
	return "exact_out"
}

func (m *Metrics) observe(params shared.SwapParams, quote *shared.SwapQuote, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	mode := swapMode(params.AmountSpecifiedIsInput)
	m.QuoteDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err != nil {
		m.QuoteRequests.WithLabelValues(mode, "error").Inc()
		return
	}
	m.QuoteRequests.WithLabelValues(mode, quote.Status.String()).Inc()
	m.SwapSteps.Observe(float64(quote.StepCount))
	m.TickArraysTouched.Observe(float64(distinct(quote.TouchedTickArrays)))
	if quote.LiquidityExceeded {
		m.LiquidityExceeded.Inc()
	}
}

func distinct(indices []int) int {
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		seen[i] = struct{}{}
	}
	return len(seen)
}
