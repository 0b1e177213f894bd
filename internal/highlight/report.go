package highlight

import "time"

// Status is the outcome of forwarding one highlight.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
	StatusPlanned   Status = "planned"
)

// Result records what happened to a single highlight.
type Result struct {
	Highlight Highlight `json:"highlight"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Report collects the results of one run over a shortlog file.
type Report struct {
	Date      time.Time `json:"date"`
	Directory string    `json:"directory"`
	File      string    `json:"file"`
	Missing   bool      `json:"missing"`
	Results   []Result  `json:"results"`
}

// Submitted returns the number of highlights the service acknowledged.
func (r *Report) Submitted() int {
	return r.count(StatusSubmitted)
}

// Failed returns the number of highlights rejected with an HTTP error.
func (r *Report) Failed() int {
	return r.count(StatusFailed)
}

func (r *Report) count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
