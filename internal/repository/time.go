package repository

import (
	"fmt"
	"time"
)

// storedTimeLayout is fixed width so TEXT comparison in SQL matches time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// readLayouts also accepts rows written by hand or by sqlite's CURRENT_TIMESTAMP.
var readLayouts = []string{storedTimeLayout, time.RFC3339Nano, time.DateTime}

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse stored time %q", raw)
}
