package main

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/julienschmidt/httprouter"

	"github.com/getsentry/timekeeper/internal/errorutil"
	"github.com/getsentry/timekeeper/internal/frame"
	"github.com/getsentry/timekeeper/internal/framerate"
	"github.com/getsentry/timekeeper/internal/httputil"
)

type FrameRateResponse struct {
	framerate.Summary
	Plot framerate.Plot `json:"plot"`
}

func (e *environment) getHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (e *environment) getStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResponse(w, r, http.StatusOK, e.snapshot(r.URL.Query().Get("plot") != "false"))
}

func (e *environment) getThreadStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)
	rawThreadID := ps.ByName("thread_id")
	threadID, err := frame.ParseThreadID(rawThreadID)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if hub != nil {
		hub.Scope().SetTag("thread_id", rawThreadID)
	}

	stats, err := e.profiler.ThreadStats(threadID)
	switch {
	case errors.Is(err, errorutil.ErrNoResults):
		w.WriteHeader(http.StatusNotFound)
		return
	case errors.Is(err, errorutil.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	httputil.WriteResponse(w, r, http.StatusOK, stats)
}

func (e *environment) getFrameRate(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResponse(w, r, http.StatusOK, FrameRateResponse{
		Summary: e.profiler.FrameRate(),
		Plot:    e.profiler.FramePlot(),
	})
}

// postReset is applied by the consumer on its next cycle.
func (e *environment) postReset(w http.ResponseWriter, r *http.Request) {
	e.profiler.RequestReset()
	w.WriteHeader(http.StatusAccepted)
}
