package levelmeter

import (
	"encoding/json"
	"strconv"

	"github.com/tphakala/levelmeter-go/internal/errors"
)

// fixed3 marshals a float64 with exactly three decimal places, matching
// the wire format UI consumers parse.
type fixed3 float64

func (f fixed3) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(f), 'f', 3, 64), nil
}

// measurementJSON is the export shape of a Measurement. Field order
// mirrors the documented document layout.
type measurementJSON struct {
	RMS        fixed3 `json:"rms"`
	Peak       fixed3 `json:"peak"`
	RMSLinear  fixed3 `json:"rmsLinear"`
	PeakLinear fixed3 `json:"peakLinear"`
	Timestamp  int64  `json:"timestamp"`
}

func toMeasurementJSON(m Measurement) measurementJSON {
	return measurementJSON{
		RMS:        fixed3(m.RMSDB),
		Peak:       fixed3(m.PeakDB),
		RMSLinear:  fixed3(m.RMSLinear),
		PeakLinear: fixed3(m.PeakLinear),
		Timestamp:  m.Timestamp.UnixMilli(),
	}
}

// ExportJSON renders the current measurement as a JSON document with
// dB and linear fields at three decimal places and the timestamp as
// integer milliseconds since the Unix epoch.
func (p *Processor) ExportJSON() (string, error) {
	data, err := json.Marshal(toMeasurementJSON(p.CurrentLevel()))
	if err != nil {
		return "", errors.New(err).
			Component("levelmeter").
			Category(errors.CategorySystem).
			Context("operation", "export_json").
			Build()
	}
	return string(data), nil
}

// ExportHistoryJSON renders up to maxCount recent measurements as a JSON
// array, newest first. maxCount of zero exports everything retained.
func (p *Processor) ExportHistoryJSON(maxCount int) (string, error) {
	history := p.History(maxCount)

	docs := make([]measurementJSON, len(history))
	for i, m := range history {
		docs[i] = toMeasurementJSON(m)
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return "", errors.New(err).
			Component("levelmeter").
			Category(errors.CategorySystem).
			Context("operation", "export_history_json").
			Context("max_count", maxCount).
			Build()
	}
	return string(data), nil
}
