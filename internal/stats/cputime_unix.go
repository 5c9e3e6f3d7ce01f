//go:build linux || darwin

package stats

import "golang.org/x/sys/unix"

// CPUSeconds returns the process's accumulated user+system CPU time in
// seconds, via getrusage(2).
func CPUSeconds() (float64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}

	user := float64(ru.Utime.Sec) + float64(ru.Utime.Usec)/1e6
	sys := float64(ru.Stime.Sec) + float64(ru.Stime.Usec)/1e6

	return user + sys, nil
}
