package domain

// DefaultCF is the consolidation function used when a query does not name one.
const DefaultCF = "AVERAGE"

// DataPoint is a single sample of a metric series.
type DataPoint struct {
	// Timestamp is in seconds since the epoch.
	Timestamp int64 `json:"timestamp"`

	// CF is the consolidation function the series was queried with.
	CF string `json:"cf"`

	// Value is nil when the series has a gap at Timestamp.
	Value *float64 `json:"value"`
}

// MetricInfo describes one metric available for a target.
// Nil pointers and nil slices mean the server did not report the field.
type MetricInfo struct {
	Metric      string   `json:"metric"`
	FromTime    *int64   `json:"from_time"`
	ToTime      *int64   `json:"to_time"`
	CFs         []string `json:"cfs"`
	Resolutions []int64  `json:"resolutions"`
}

// TargetInfo is one row of a target listing. Host rows have no instance.
type TargetInfo struct {
	Host     string `json:"host"`
	Instance string `json:"instance,omitempty"`
}

// HasInstance reports whether the row describes an instance.
func (ti TargetInfo) HasInstance() bool { return ti.Instance != "" }

// Target converts the row into an addressable Target.
func (ti TargetInfo) Target() Target {
	if ti.Instance == "" {
		return Host(ti.Host)
	}
	return HostInstance(ti.Host, ti.Instance)
}

// QueryOpts holds the optional parameters of a metric query.
// Nil fields are sent as null so the server applies its own defaults.
type QueryOpts struct {
	// CF is the consolidation function. Empty means DefaultCF.
	CF string

	// FromTime and ToTime bound the query window in epoch seconds.
	FromTime *int64
	ToTime   *int64

	// Resolution is the sampling resolution in seconds.
	Resolution *int64
}
