package tools

// Series is the ordered metric samples gathered across trials for one
// endpoint, one sample per concurrency level.
type Series []float64

// Results collects one series per endpoint, preserving the order in which
// endpoints were first appended. Rendering order and colour assignment
// both follow this order.
type Results struct {
	names  []string
	series map[string]Series
}

func NewResults() *Results {
	return &Results{series: make(map[string]Series)}
}

// Append adds one sample to the named series, creating it if needed.
func (r *Results) Append(name string, v float64) {
	if _, ok := r.series[name]; !ok {
		r.names = append(r.names, name)
	}
	r.series[name] = append(r.series[name], v)
}

// Names returns the series names in first-appended order.
func (r *Results) Names() []string {
	return r.names
}

// Series returns the samples for one name, or nil if absent.
func (r *Results) Series(name string) Series {
	return r.series[name]
}

// Len returns the number of series.
func (r *Results) Len() int {
	return len(r.names)
}
