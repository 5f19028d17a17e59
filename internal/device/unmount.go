package device

import (
	"bufio"
	"io"
	"strings"
)

// mountedPartitions returns the mount points in a /proc/mounts style table
// whose source is device or one of its partitions.
func mountedPartitions(r io.Reader, device string) []string {
	var points []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if isPartitionOf(fields[0], device) {
			points = append(points, unescapeMount(fields[1]))
		}
	}
	return points
}

// isPartitionOf matches /dev/sdb, /dev/sdb1 and /dev/mmcblk0p1 against /dev/sdb
// or /dev/mmcblk0.
func isPartitionOf(source, device string) bool {
	if source == device {
		return true
	}
	rest, ok := strings.CutPrefix(source, device)
	if !ok || rest == "" {
		return false
	}
	rest = strings.TrimPrefix(rest, "p")
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return rest != ""
}

// unescapeMount decodes the octal escapes the kernel uses for spaces and tabs.
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}
