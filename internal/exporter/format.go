package exporter

import (
	"fmt"
	"strconv"

	"github.com/lizi12/hw5-2019/internal/dataprocessing"
)

// formatFloat formats a float64 value for CSV output in the shortest form
// that round-trips, like %g
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatCell renders one table cell. Missing cells become empty strings.
func formatCell(v any) string {
	if dataprocessing.IsMissing(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return formatInt(int64(x))
	case int64:
		return formatInt(x)
	case int32:
		return formatInt(int64(x))
	case bool:
		return formatBool(x)
	}
	return fmt.Sprint(v)
}
