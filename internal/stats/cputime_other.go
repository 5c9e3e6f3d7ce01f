//go:build !linux && !darwin

package stats

import "errors"

// CPUSeconds is unsupported on platforms without getrusage(2).
func CPUSeconds() (float64, error) {
	return 0, errors.New("stats: CPU time accounting is unavailable on this platform")
}
