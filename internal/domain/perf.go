package domain

import "time"

// CallKind groups API calls for performance reporting.
type CallKind string

const (
	CallProjectList CallKind = "project_list"
	CallProjectInfo CallKind = "project_info"
	CallLanguages   CallKind = "languages"
	CallFileTree    CallKind = "file_tree"
	CallFileContent CallKind = "file_content"
	CallOther       CallKind = "other"
)

// CallKinds lists every kind in report order.
var CallKinds = []CallKind{
	CallProjectList, CallProjectInfo, CallLanguages,
	CallFileTree, CallFileContent, CallOther,
}

type CallStats struct {
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
}

func (s CallStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// AppTypeStats aggregates finished repositories sharing a web-app type.
type AppTypeStats struct {
	Count    int                    `json:"count"`
	Total    time.Duration          `json:"total"`
	Analysis time.Duration          `json:"analysis"`
	Calls    map[CallKind]CallStats `json:"calls"`
}

// APICalls returns the number of API calls across all kinds.
func (a AppTypeStats) APICalls() int {
	n := 0
	for _, c := range a.Calls {
		n += c.Count
	}
	return n
}

// APITime returns the time spent in API calls across all kinds.
func (a AppTypeStats) APITime() time.Duration {
	var d time.Duration
	for _, c := range a.Calls {
		d += c.Total
	}
	return d
}

// PerfSummary is a snapshot of the tracker.
type PerfSummary struct {
	TotalCalls   int                     `json:"total_calls"`
	TotalTime    time.Duration           `json:"total_time"`
	Calls        map[CallKind]CallStats  `json:"calls"`
	ByAppType    map[string]AppTypeStats `json:"by_app_type"`
	Repositories int                     `json:"repositories"`
}

// ProjectedDuration extrapolates elapsed time over analyzed repositories to target repositories.
func ProjectedDuration(elapsed time.Duration, analyzed, target int) time.Duration {
	if analyzed <= 0 {
		return 0
	}
	return elapsed / time.Duration(analyzed) * time.Duration(target)
}

type repoStats struct {
	start time.Time
	calls map[CallKind]CallStats
}

// PerfTracker records API call timings per kind and per repository. A nil
// *PerfTracker is valid and records nothing.
type PerfTracker struct {
	now     func() time.Time
	calls   map[CallKind]CallStats
	current *repoStats
	byType  map[string]AppTypeStats
	repos   int
}

func NewPerfTracker(now func() time.Time) *PerfTracker {
	return &PerfTracker{
		now:    now,
		calls:  make(map[CallKind]CallStats),
		byType: make(map[string]AppTypeStats),
	}
}

// Track records one API call of the given kind.
func (t *PerfTracker) Track(kind CallKind, d time.Duration) {
	if t == nil {
		return
	}
	if !knownKind(kind) {
		kind = CallOther
	}
	t.calls[kind] = addCall(t.calls[kind], d)
	if t.current != nil {
		t.current.calls[kind] = addCall(t.current.calls[kind], d)
	}
}

// StartRepository begins attributing calls to a repository.
func (t *PerfTracker) StartRepository() {
	if t == nil {
		return
	}
	t.current = &repoStats{start: t.now(), calls: make(map[CallKind]CallStats)}
}

// FinishRepository closes the current repository and aggregates it under appType.
func (t *PerfTracker) FinishRepository(appType string, analysis time.Duration) {
	if t == nil || t.current == nil {
		return
	}
	if appType == "" {
		appType = "None"
	}
	agg := t.byType[appType]
	if agg.Calls == nil {
		agg.Calls = make(map[CallKind]CallStats)
	}
	agg.Count++
	agg.Total += t.now().Sub(t.current.start)
	agg.Analysis += analysis
	for k, c := range t.current.calls {
		prev := agg.Calls[k]
		agg.Calls[k] = CallStats{Count: prev.Count + c.Count, Total: prev.Total + c.Total}
	}
	t.byType[appType] = agg
	t.repos++
	t.current = nil
}

// Summary returns a copy of the recorded metrics.
func (t *PerfTracker) Summary() PerfSummary {
	s := PerfSummary{
		Calls:     make(map[CallKind]CallStats),
		ByAppType: make(map[string]AppTypeStats),
	}
	if t == nil {
		return s
	}
	for k, c := range t.calls {
		s.Calls[k] = c
		s.TotalCalls += c.Count
		s.TotalTime += c.Total
	}
	for k, a := range t.byType {
		s.ByAppType[k] = a
	}
	s.Repositories = t.repos
	return s
}

func addCall(s CallStats, d time.Duration) CallStats {
	return CallStats{Count: s.Count + 1, Total: s.Total + d}
}

func knownKind(kind CallKind) bool {
	for _, k := range CallKinds {
		if k == kind {
			return true
		}
	}
	return false
}
