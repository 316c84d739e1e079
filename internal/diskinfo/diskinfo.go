// Package diskinfo reports volume capacity for the status header and the
// post-run report.
package diskinfo

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// Summary is a snapshot of one volume's capacity.
type Summary struct {
	Path        string
	Total       uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

// Usage returns the capacity summary for the volume containing path.
func Usage(path string) (Summary, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Path:        stat.Path,
		Total:       stat.Total,
		Free:        stat.Free,
		Used:        stat.Used,
		UsedPercent: stat.UsedPercent,
	}, nil
}
