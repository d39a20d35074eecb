// Package metrics exposes planner counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weekly-planner/internal/model"
)

var (
	// mergeTotal counts plan merges.
	mergeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_merge_total",
		Help: "Total number of plan merges",
	})

	// mergeAdded counts tasks introduced by merges.
	mergeAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_merge_added_tasks_total",
		Help: "Total number of tasks added by plan merges",
	})

	// postponeTotal counts reschedules, split by whether they crossed a week.
	postponeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_postpone_total",
		Help: "Total number of postponed tasks by week wrap",
	}, []string{"wrapped"})

	statusChange = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_status_change_total",
		Help: "Total number of task status changes by new status",
	}, []string{"status"})

	weekConflict = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_week_conflict_total",
		Help: "Total number of rejected concurrent week writes",
	})
)

func ObserveMerge(added int) {
	mergeTotal.Inc()
	if added > 0 {
		mergeAdded.Add(float64(added))
	}
}

func ObserveStatus(status model.Status) {
	statusChange.WithLabelValues(string(status)).Inc()
}

func ObservePostpone(wrapped bool) {
	postponeTotal.WithLabelValues(strconv.FormatBool(wrapped)).Inc()
}

func ObserveConflict() {
	weekConflict.Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics shutdown: %v", err)
		}
	}()

	log.Printf("[info] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
