// Package floatutils provides utilities for working with floats
package floatutils

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		if values[i] > max {
			max = values[i]
			indices = []int{i}
		} else if values[i] == max {
			indices = append(indices, i)
		}
	}
	return
}

// Argmax returns the index of the maximum value in a slice of float64.
// If multiple equal max values exist, only the first one is returned.
func Argmax(values []float64) int {
	_, indices := MaxSlice(values)
	return indices[0]
}
