package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
)

// EncodeCSV flattens a stage into one row per instance: identity and
// ground truth, then per-attempt response/status/runtime columns, then
// one score column per attempt per metric.
func EncodeCSV(s Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("artifact: nil snapshot")
	}

	nAttempts := 0
	for _, inst := range s.Instances() {
		if n := len(inst.Attempts()); n > nAttempts {
			nAttempts = n
		}
	}

	metricNames := make([]string, 0, len(s.Metrics()))
	for _, m := range s.Metrics() {
		metricNames = append(metricNames, m.Name())
	}
	sort.Strings(metricNames)

	header := []string{"id", "ground_truth"}
	for i := 1; i <= nAttempts; i++ {
		header = append(header,
			fmt.Sprintf("attempt_%d_response", i),
			fmt.Sprintf("attempt_%d_status", i),
			fmt.Sprintf("attempt_%d_runtime", i),
		)
	}
	for i := 1; i <= nAttempts; i++ {
		for _, name := range metricNames {
			header = append(header, fmt.Sprintf("attempt_%d_%s", i, name))
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, inst := range s.Instances() {
		row := []string{inst.ID(), inst.GroundTruth()}

		attempts := inst.Attempts()
		for i := 0; i < nAttempts; i++ {
			if i >= len(attempts) {
				row = append(row, "", "", "")
				continue
			}
			att := attempts[i]
			response := ""
			if att.Response != nil {
				response = *att.Response
			}
			runtime := ""
			if att.Runtime != nil {
				runtime = strconv.FormatFloat(*att.Runtime, 'f', 2, 64)
			}
			row = append(row, response, string(att.Status), runtime)
		}

		for i := 0; i < nAttempts; i++ {
			for _, name := range metricNames {
				row = append(row, scoreCell(inst.Scores()[name], i))
			}
		}

		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scoreCell(scores []any, i int) string {
	if i >= len(scores) || scores[i] == nil {
		return ""
	}
	switch v := scores[i].(type) {
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
