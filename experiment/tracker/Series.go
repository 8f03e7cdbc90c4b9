package tracker

// Series tracks an arbitrary series of values that are not tied to
// environment timesteps, such as the change in the value table of each
// sweep or the loss of each network update
type Series struct {
	name     string
	values   []float64
	filename string
}

// NewSeries returns a new Series which will save its data at filename
func NewSeries(name, filename string) *Series {
	return &Series{name: name, filename: filename}
}

// Add appends values to the series
func (s *Series) Add(values ...float64) {
	s.values = append(s.values, values...)
}

// Name returns the name of the series
func (s *Series) Name() string {
	return s.name
}

// Data returns the values of the series
func (s *Series) Data() []float64 {
	return s.values
}

// Len returns the number of values in the series
func (s *Series) Len() int {
	return len(s.values)
}

// Save saves the series to disk.
func (s *Series) Save() error {
	return save(s.filename, s.values)
}
