package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementTargetValue is the measurement holding polled target values.
const MeasurementTargetValue = "target_value"

// TargetSample is one polled value of a target.
type TargetSample struct {
	Kind    string
	ID      string
	Name    string
	Value   float64
	Changed bool
	At      time.Time
}

// WriteTargetValue records one polled sample.
//
// Tags are the target kind, its stable ID and (when set) its display name;
// the URL is deliberately not a tag because it is high-cardinality and can
// embed credentials. The write is non-blocking.
//
// Example:
//
//	client.WriteTargetValue(influxdb.TargetSample{Kind: "intensity", ID: id, Value: 42.5, At: now})
func (c *Client) WriteTargetValue(s TargetSample) {
	tags := map[string]string{
		"kind":      s.Kind,
		"target_id": s.ID,
	}
	if s.Name != "" {
		tags["name"] = s.Name
	}

	at := s.At
	if at.IsZero() {
		at = time.Now()
	}

	c.WritePointWithTime(MeasurementTargetValue, tags, map[string]any{
		"value":   s.Value,
		"changed": s.Changed,
	}, at)
}

// WritePointWithTime writes a custom point with a specific timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
