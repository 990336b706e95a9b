// Package utils holds small helpers shared by the services and handlers
package utils

import "fmt"

var sizeUnits = []string{"KB", "MB", "GB", "TB", "PB", "EB"}

// HumanSize renders a file size in binary units with one decimal, e.g.
// "1.5 MB". Negative sizes, as reported for unknown lengths, render as "0 B".
func HumanSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", max(size, 0))
	}
	value := float64(size) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}
