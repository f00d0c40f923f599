package provision

import (
	"net/http"
	"sync"

	"github.com/nerrad567/mood-node/internal/onem2m"
)

// Step is one provisioning action and its outcome.
type Step struct {
	Name   string
	OK     bool
	Result onem2m.Result
}

// Report collects the ordered outcomes of a provisioning run. It is written
// by Run and read afterwards by the status endpoint, so access is guarded.
type Report struct {
	mu    sync.RWMutex
	steps []Step
}

func newReport() *Report {
	return &Report{}
}

func (r *Report) record(name string, res onem2m.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Name: name, OK: res.OK, Result: res})
}

// recordBool records a step that has no HTTP result of its own.
func (r *Report) recordBool(name string, ok bool) {
	status := onem2m.StatusNoResponse
	if ok {
		status = http.StatusOK
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Name: name, OK: ok, Result: onem2m.Result{OK: ok, Status: status}})
}

// Steps returns a copy of the recorded steps in execution order.
func (r *Report) Steps() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// AllOK reports whether every recorded step succeeded.
func (r *Report) AllOK() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// Summary renders the report as step name to outcome, for the status API.
func (r *Report) Summary() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.steps))
	for _, s := range r.steps {
		out[s.Name] = s.Result.String()
	}
	return out
}
