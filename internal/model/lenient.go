package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON decodes a raw posting. The structured salary fields are read
// leniently: crawlers emit them as integers, floats ("8000.0") or numeric
// strings ("8000"), and anything else is treated as absent so the posting
// still reaches the text parser.
func (p *RawPosting) UnmarshalJSON(data []byte) error {
	type plain RawPosting
	aux := struct {
		*plain
		SalaryMin    lenientInt `json:"salary_min"`
		SalaryMax    lenientInt `json:"salary_max"`
		SalaryMonths lenientInt `json:"salary_months"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.SalaryMin = aux.SalaryMin.v
	p.SalaryMax = aux.SalaryMax.v
	p.SalaryMonths = aux.SalaryMonths.v
	return nil
}

// lenientInt is an optional integer that never fails to decode.
type lenientInt struct {
	v *int
}

func (n *lenientInt) UnmarshalJSON(data []byte) error {
	n.v = nil
	data = bytes.TrimSpace(data)

	var text string
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	default:
		text = string(data)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.RoundToEven(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	v := int(f)
	n.v = &v
	return nil
}
