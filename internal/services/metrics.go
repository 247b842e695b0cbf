package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// aiContentCacheHits counts content requests served from the cache,
	// labelled by content type (quiz, summary, exam_questions).
	aiContentCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_content_cache_hits_total",
			Help: "AI content requests answered from the cache.",
		},
		[]string{"content_type"},
	)

	// aiContentGenerated counts fresh generator invocations by content type.
	aiContentGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_content_generated_total",
			Help: "AI content generated by the model (cache misses).",
		},
		[]string{"content_type"},
	)

	// aiMatchFallbacks counts group-ranking requests that fell back to the
	// deterministic scorer because AI enhancement failed.
	aiMatchFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_match_fallbacks_total",
			Help: "Group match rankings that used the deterministic fallback.",
		},
	)

	// joinCodeCollisions counts join-code candidates discarded because the
	// code was already in use.
	joinCodeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "group_join_code_collisions_total",
			Help: "Join code candidates rejected due to collisions.",
		},
	)
)

func init() {
	prometheus.MustRegister(aiContentCacheHits, aiContentGenerated, aiMatchFallbacks, joinCodeCollisions)
}
