package common

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
)

var periodRegex = regexp.MustCompile(`(\d+)([dhms])`)

var periodUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// ParsePeriod converts a k8s-notation period (e.g. "10s", "5m", "1h30m", "2d") into a duration.
// Every character of the input must belong to a number/unit pair.
func ParsePeriod(period string) (time.Duration, error) {
	period = strings.TrimSpace(period)
	matches := periodRegex.FindAllStringSubmatch(period, -1)
	if len(matches) == 0 {
		return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: period, Reason: "invalid time period, expected e.g. 10s, 5m or 1h30m"}
	}

	var (
		total    time.Duration
		consumed int
	)
	for _, match := range matches {
		unit := periodUnits[match[2]]
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: period, Reason: err.Error()}
		}
		if value > math.MaxInt64/int64(unit) {
			return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: period, Reason: "time period is too long"}
		}
		step := time.Duration(value) * unit
		if total > math.MaxInt64-step {
			return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: period, Reason: "time period is too long"}
		}
		total += step
		consumed += len(match[0])
	}
	if consumed != len(period) {
		return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: period, Reason: "unexpected characters in time period"}
	}
	return total, nil
}
