package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"

	"voiceqa/telemetry/internal/budget"
)

type Config struct {
	Server struct {
		ProbePort string
	}
	Harness struct {
		BaseURL string
		DiagURL string
	}
	Collect struct {
		PollIntervalMs  int
		SampleTimeoutMs int
		SampleCount     int
		RelaxMultiplier float64
	}
	Budget struct {
		P50Ms              float64
		P90Ms              float64
		P99Ms              float64
		DetectionToFadeMs  float64
		FadeToSilenceMs    float64
		MaxQueueOverflows  int
		MaxFalseBargeIns   int
		MaxScheduleResets  int
		MaxResponseMs      float64
		MaxBargeInMs       float64
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.probe_port", 8086)

	v.SetDefault("harness.base_url", "http://localhost:8080")
	v.SetDefault("harness.diag_url", "")

	v.SetDefault("collect.poll_interval_ms", 250)
	v.SetDefault("collect.sample_timeout_ms", 15000)
	v.SetDefault("collect.sample_count", 10)
	v.SetDefault("collect.relax_multiplier", 1.0)

	v.SetDefault("budget.p50_ms", 150)
	v.SetDefault("budget.p90_ms", 300)
	v.SetDefault("budget.p99_ms", 500)
	v.SetDefault("budget.detection_to_fade_ms", 100)
	v.SetDefault("budget.fade_to_silence_ms", 250)
	v.SetDefault("budget.max_queue_overflows", 2)
	v.SetDefault("budget.max_false_barge_ins", 1)
	v.SetDefault("budget.max_schedule_resets", 1)
	v.SetDefault("budget.max_response_ms", 2000)
	v.SetDefault("budget.max_barge_in_ms", 600)

	// Map envs
	v.BindEnv("server.probe_port", "PROBE_PORT")

	v.BindEnv("harness.base_url", "HARNESS_BASE_URL")
	v.BindEnv("harness.diag_url", "HARNESS_DIAG_URL")

	v.BindEnv("collect.poll_interval_ms", "COLLECT_POLL_INTERVAL_MS")
	v.BindEnv("collect.sample_timeout_ms", "COLLECT_SAMPLE_TIMEOUT_MS")
	v.BindEnv("collect.sample_count", "COLLECT_SAMPLE_COUNT")
	v.BindEnv("collect.relax_multiplier", "COLLECT_RELAX_MULTIPLIER")

	v.BindEnv("budget.p50_ms", "BUDGET_P50_MS")
	v.BindEnv("budget.p90_ms", "BUDGET_P90_MS")
	v.BindEnv("budget.p99_ms", "BUDGET_P99_MS")
	v.BindEnv("budget.detection_to_fade_ms", "BUDGET_DETECTION_TO_FADE_MS")
	v.BindEnv("budget.fade_to_silence_ms", "BUDGET_FADE_TO_SILENCE_MS")
	v.BindEnv("budget.max_queue_overflows", "BUDGET_MAX_QUEUE_OVERFLOWS")
	v.BindEnv("budget.max_false_barge_ins", "BUDGET_MAX_FALSE_BARGE_INS")
	v.BindEnv("budget.max_schedule_resets", "BUDGET_MAX_SCHEDULE_RESETS")
	v.BindEnv("budget.max_response_ms", "BUDGET_MAX_RESPONSE_MS")
	v.BindEnv("budget.max_barge_in_ms", "BUDGET_MAX_BARGE_IN_MS")

	var c Config
	c.Server.ProbePort = v.GetString("server.probe_port")

	c.Harness.BaseURL = v.GetString("harness.base_url")
	c.Harness.DiagURL = v.GetString("harness.diag_url")

	c.Collect.PollIntervalMs = v.GetInt("collect.poll_interval_ms")
	c.Collect.SampleTimeoutMs = v.GetInt("collect.sample_timeout_ms")
	c.Collect.SampleCount = v.GetInt("collect.sample_count")
	c.Collect.RelaxMultiplier = v.GetFloat64("collect.relax_multiplier")

	c.Budget.P50Ms = v.GetFloat64("budget.p50_ms")
	c.Budget.P90Ms = v.GetFloat64("budget.p90_ms")
	c.Budget.P99Ms = v.GetFloat64("budget.p99_ms")
	c.Budget.DetectionToFadeMs = v.GetFloat64("budget.detection_to_fade_ms")
	c.Budget.FadeToSilenceMs = v.GetFloat64("budget.fade_to_silence_ms")
	c.Budget.MaxQueueOverflows = v.GetInt("budget.max_queue_overflows")
	c.Budget.MaxFalseBargeIns = v.GetInt("budget.max_false_barge_ins")
	c.Budget.MaxScheduleResets = v.GetInt("budget.max_schedule_resets")
	c.Budget.MaxResponseMs = v.GetFloat64("budget.max_response_ms")
	c.Budget.MaxBargeInMs = v.GetFloat64("budget.max_barge_in_ms")

	log.Printf("config loaded: harness=%s samples=%d relax=%.2f", c.Harness.BaseURL, c.Collect.SampleCount, c.Collect.RelaxMultiplier)
	return c
}

// Thresholds builds the immutable budget map the evaluator consumes.
func (c Config) Thresholds() budget.Thresholds {
	return budget.Thresholds{
		BargeIn: budget.BargeInBudget{
			P50:             c.Budget.P50Ms,
			P90:             c.Budget.P90Ms,
			P99:             c.Budget.P99Ms,
			DetectionToFade: c.Budget.DetectionToFadeMs,
			FadeToSilence:   c.Budget.FadeToSilenceMs,
		},
		MaxQueueOverflows:    c.Budget.MaxQueueOverflows,
		MaxFalseBargeIns:     c.Budget.MaxFalseBargeIns,
		MaxScheduleResets:    c.Budget.MaxScheduleResets,
		MaxResponseLatencyMs: c.Budget.MaxResponseMs,
		MaxBargeInLatencyMs:  c.Budget.MaxBargeInMs,
	}
}
