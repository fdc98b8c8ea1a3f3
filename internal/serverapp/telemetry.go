package serverapp

import (
	"net/http"
	"strings"

	"github.com/linyijun92/naruto-rebirth-game/internal/telemetry"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// observe records eventType after next succeeds. Only POST mutations count;
// reads on the same route pass through unrecorded.
func observe(rec telemetry.Recorder, eventType telemetry.EventType, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if r.Method == http.MethodPost && sw.status < 300 {
			rec.Record(eventType)
		}
	})
}

// observeQuestActions maps the quest action suffix to its event type.
func observeQuestActions(rec telemetry.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if r.Method != http.MethodPost || sw.status >= 300 {
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/accept"):
			rec.Record(telemetry.EventQuestAccepted)
		case strings.HasSuffix(r.URL.Path, "/complete"):
			rec.Record(telemetry.EventQuestCompleted)
		case strings.HasSuffix(r.URL.Path, "/claim"):
			rec.Record(telemetry.EventRewardClaimed)
		}
	})
}
