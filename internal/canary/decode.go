package canary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gridcentric/canaryctl/internal/canary/domain"
)

// decodePoints converts [[timestamp, value], ...] into data points tagged
// with cf. Order is preserved; a null value is a gap.
func decodePoints(raw json.RawMessage, cf string) ([]domain.DataPoint, error) {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, err
	}

	points := make([]domain.DataPoint, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, fmt.Errorf("sample %d: expected [timestamp, value], got %d element(s)", i, len(pair))
		}

		ts, err := decodeTimestamp(pair[0])
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}

		var value *float64
		if !isNull(pair[1]) {
			var v float64
			if err := json.Unmarshal(pair[1], &v); err != nil {
				return nil, fmt.Errorf("sample %d: value: %w", i, err)
			}
			value = &v
		}

		points = append(points, domain.DataPoint{Timestamp: ts, CF: cf, Value: value})
	}
	return points, nil
}

// decodeTimestamp accepts integer and fractional epoch seconds; fractions
// are truncated.
func decodeTimestamp(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("timestamp: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("timestamp: %w", err)
	}
	return int64(math.Trunc(f)), nil
}

// wireMetricInfo is the per-metric object of an info response.
type wireMetricInfo struct {
	FromTime    *int64   `json:"from_time"`
	ToTime      *int64   `json:"to_time"`
	CFs         []string `json:"cfs"`
	Resolutions []int64  `json:"resolutions"`
}

// decodeMetricInfos converts {metric: {...}, ...} into MetricInfo records in
// wire order.
func decodeMetricInfos(raw json.RawMessage) ([]domain.MetricInfo, error) {
	infos := []domain.MetricInfo{}
	if isNull(raw) {
		return infos, nil
	}

	err := eachMember(raw, func(metric string, value json.RawMessage) error {
		var w wireMetricInfo
		if !isNull(value) {
			if err := json.Unmarshal(value, &w); err != nil {
				return fmt.Errorf("metric %q: %w", metric, err)
			}
		}
		infos = append(infos, domain.MetricInfo{
			Metric:      metric,
			FromTime:    w.FromTime,
			ToTime:      w.ToTime,
			CFs:         w.CFs,
			Resolutions: w.Resolutions,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// decodeTargets accepts either a flat list of host names or an object
// mapping each host to its instance identifiers.
func decodeTargets(raw json.RawMessage) ([]domain.TargetInfo, error) {
	targets := []domain.TargetInfo{}

	switch firstByte(raw) {
	case 'n':
		return targets, nil
	case '[':
		var hosts []string
		if err := json.Unmarshal(raw, &hosts); err != nil {
			return nil, err
		}
		for _, h := range hosts {
			targets = append(targets, domain.TargetInfo{Host: h})
		}
		return targets, nil
	case '{':
		err := eachMember(raw, func(host string, value json.RawMessage) error {
			var instances []string
			if err := json.Unmarshal(value, &instances); err != nil {
				return fmt.Errorf("host %q: %w", host, err)
			}
			targets = append(targets, domain.TargetInfo{Host: host})
			for _, inst := range instances {
				targets = append(targets, domain.TargetInfo{Host: host, Instance: inst})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return targets, nil
	default:
		return nil, fmt.Errorf("expected a list or an object")
	}
}

// eachMember calls fn for every member of the JSON object in raw, in the
// order the members appear in the document.
func eachMember(raw json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
