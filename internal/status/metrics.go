package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sweeney/powerled/internal/logic"
)

const namespace = "powerled"

var phases = []logic.Phase{
	logic.PhaseSteadyOff,
	logic.PhaseRampingUp,
	logic.PhaseSteadyOn,
	logic.PhaseRampingDown,
}

// Metrics exposes indicator state to Prometheus.
type Metrics struct {
	Registry *prometheus.Registry

	Brightness prometheus.Gauge
	Target     prometheus.Gauge
	ACPresent  prometheus.Gauge
	Muting     prometheus.Gauge
	Phase      *prometheus.GaugeVec

	Iterations  prometheus.Counter
	ACDetected  prometheus.Counter
	ACLost      prometheus.Counter
	MuteEffects prometheus.Counter
	Ramps       *prometheus.CounterVec
	GPIOErrors  prometheus.Counter

	last logic.Counts
}

// NewMetrics registers the indicator metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Brightness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "brightness",
			Help: "Linear brightness level currently driven (0-99).",
		}),
		Target: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "target_brightness",
			Help: "Brightness level the ramp is moving toward.",
		}),
		ACPresent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ac_present",
			Help: "1 while the AC absence timeout is running.",
		}),
		Muting: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "muting",
			Help: "1 while the preamp mute line is asserted.",
		}),
		Phase: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "phase",
			Help: "1 for the current brightness phase.",
		}, []string{"phase"}),
		Iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "loop_iterations_total",
			Help: "Control loop iterations.",
		}),
		ACDetected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ac_pulses_seen_total",
			Help: "Iterations that saw the zero-cross counter change.",
		}),
		ACLost: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ac_lost_total",
			Help: "AC absence timeouts that expired.",
		}),
		MuteEffects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "mute_effects_total",
			Help: "Muting effect animations run.",
		}),
		Ramps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ramps_total",
			Help: "Ramps started, by direction.",
		}, []string{"direction"}),
		GPIOErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "gpio_errors_total",
			Help: "Failed GPIO reads and writes.",
		}),
	}
}

// Observe updates the metrics from a controller snapshot. Counters advance by
// the difference from the previous snapshot. Single writer only.
func (m *Metrics) Observe(s logic.Snapshot) {
	m.Brightness.Set(float64(s.Brightness))
	m.Target.Set(float64(s.Target))
	m.ACPresent.Set(boolGauge(s.ACPresent))
	m.Muting.Set(boolGauge(s.Muting))
	for _, p := range phases {
		m.Phase.WithLabelValues(string(p)).Set(boolGauge(p == s.Phase))
	}

	c := s.Counts
	m.Iterations.Add(float64(c.Iterations - m.last.Iterations))
	m.ACDetected.Add(float64(c.ACDetected - m.last.ACDetected))
	m.ACLost.Add(float64(c.ACLost - m.last.ACLost))
	m.MuteEffects.Add(float64(c.MuteEffects - m.last.MuteEffects))
	m.Ramps.WithLabelValues("up").Add(float64(c.RampsUp - m.last.RampsUp))
	m.Ramps.WithLabelValues("down").Add(float64(c.RampsDown - m.last.RampsDown))
	m.last = c
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
