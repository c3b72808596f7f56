package diag

import "sync"

// Recorder keeps diagnostics in memory. Debug messages are recorded regardless of level.
type Recorder struct {
	mu     sync.Mutex
	errors []string
	debugs []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, Prefix+msg)
}

func (r *Recorder) Debug(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugs = append(r.debugs, msg)
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.errors...)
}

func (r *Recorder) Debugs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.debugs...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
	r.debugs = nil
}
