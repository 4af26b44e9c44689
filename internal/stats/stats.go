// Package stats publishes relay gauges over expvar: connected chat
// clients, loaded event rooms, and messages fanned out since start.
package stats

import (
	"encoding/json"
	"expvar"
	"net/http"
	"time"
)

// StatsProvider is the counter surface the chat relay records against.
type StatsProvider interface {
	Incr(name string)
	Decr(name string)
	RegisterMetric(name string)
	Run()
}

// StatsUpdater serializes gauge updates through a single goroutine and
// serves the current values on /debug/vars.
type StatsUpdater struct {
	vars      *expvar.Map
	deltaChan chan *gaugeDelta
}

type gaugeDelta struct {
	name  string
	delta int
}

func (su *StatsUpdater) expvarHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	expvarData := make(map[string]any)
	su.vars.Do(func(kv expvar.KeyValue) {
		var value any
		json.Unmarshal([]byte(kv.Value.String()), &value)
		expvarData[kv.Key] = value
	})

	json.NewEncoder(w).Encode(expvarData)
}

func NewStatsUpdater(mux *http.ServeMux) *StatsUpdater {
	su := &StatsUpdater{
		deltaChan: make(chan *gaugeDelta, 512),
	}
	mux.Handle("GET /debug/vars", http.HandlerFunc(su.expvarHandler))
	su.vars = expvar.NewMap("sportmate-stats")

	// Uptime rides along with the relay gauges.
	startTime := time.Now()
	su.vars.Set("Uptime", expvar.Func(func() any {
		return time.Since(startTime).Milliseconds()
	}))

	return su
}

func (su *StatsUpdater) applyDeltas() {
	for d := range su.deltaChan {
		metric := su.vars.Get(d.name)
		if metric == nil {
			panic("metric not found: " + d.name)
		}

		metric.(*expvar.Int).Add(int64(d.delta))
	}
}

func (su *StatsUpdater) Incr(name string) {
	su.deltaChan <- &gaugeDelta{name: name, delta: 1}
}

func (su *StatsUpdater) Decr(name string) {
	su.deltaChan <- &gaugeDelta{name: name, delta: -1}
}

// RegisterMetric publishes a named gauge. Every gauge must be registered
// before its first Incr or Decr.
func (su *StatsUpdater) RegisterMetric(name string) {
	su.vars.Set(name, expvar.NewInt(name))
}

func (su *StatsUpdater) Run() {
	go su.applyDeltas()
}

func (su *StatsUpdater) Stop() {
	close(su.deltaChan)
}
