package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "automod_event_duration_sec",
	Help: "Total duration of automod event processing",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var eventDroppedCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_event_dropped",
	Help: "Number of events dropped because a community queue was full or unloaded",
})

var ruleMatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_rule_matches",
	Help: "Number of rule matches, by trigger kind",
}, []string{"trigger"})

var evaluatorErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_evaluator_errors",
	Help: "Number of trigger evaluations which failed (degraded to no-match)",
}, []string{"trigger"})

var actionErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_action_errors",
	Help: "Number of failed action executions",
}, []string{"action"})

var actionAppliedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_actions_applied",
	Help: "Number of action applications, by action type",
}, []string{"action"})

var cooldownSkipCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_cooldown_skips",
	Help: "Number of matches discarded because the rule+user was on cooldown",
})

var spamDedupeSkipCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_spam_dedupe_skips",
	Help: "Number of spam matches with no new users after wave dedupe",
})

var renderErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "automod_render_errors",
	Help: "Number of alert/log template render failures",
})

var queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "automod_queue_depth",
	Help: "Pending events per community queue",
}, []string{"community"})

var sweepRemovedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automod_sweep_removed",
	Help: "Number of expired entries removed by periodic sweeps",
}, []string{"store"})
