package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind identifies how a parsed field is represented.
type ValueKind int

const (
	KindNumber  ValueKind = iota // JSON number
	KindText                     // JSON string, trimmed source text
	KindMissing                  // JSON null, numeric field that did not parse
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Value is a single monthly or annual reading.
type Value struct {
	Kind ValueKind
	Num  float64
	Text string
}

// Number returns a numeric value. NaN and infinities become Missing since JSON
// cannot carry them.
func Number(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: v}
}

// Text returns a raw text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Missing returns the value used for numeric fields that could not be parsed.
func Missing() Value {
	return Value{Kind: KindMissing}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Missing()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*v = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("decode numeric value: %w", err)
		}
		*v = Number(f)
	}
	return nil
}

// CityRecord holds one station's readings for one dataset.
type CityRecord struct {
	ID           string  `json:"id"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ValueByMonth []Value `json:"valueByMonth"`
	AnnualValue  Value   `json:"annualValue"`
}

// Dataset is a named collection of city records keyed by city ID. Records keep
// the order in which they were first put, and that order is preserved in JSON.
type Dataset struct {
	Name string

	ids  []string
	byID map[string]CityRecord
}

// NewDataset creates an empty dataset.
func NewDataset(name string) *Dataset {
	return &Dataset{
		Name: name,
		byID: make(map[string]CityRecord),
	}
}

// Put stores rec under rec.ID. A record with an ID that is already present
// replaces the earlier one but keeps its position.
func (d *Dataset) Put(rec CityRecord) {
	d.set(rec.ID, rec)
}

func (d *Dataset) set(key string, rec CityRecord) {
	if d.byID == nil {
		d.byID = make(map[string]CityRecord)
	}
	if _, ok := d.byID[key]; !ok {
		d.ids = append(d.ids, key)
	}
	d.byID[key] = rec
}

// Get returns the record stored under id.
func (d *Dataset) Get(id string) (CityRecord, bool) {
	rec, ok := d.byID[id]
	return rec, ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.ids) }

// IDs returns the record keys in insertion order.
func (d *Dataset) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

// Records returns the records in insertion order.
func (d *Dataset) Records() []CityRecord {
	out := make([]CityRecord, 0, len(d.ids))
	for _, id := range d.ids {
		out = append(out, d.byID[id])
	}
	return out
}

func (d Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	name, err := json.Marshal(d.Name)
	if err != nil {
		return nil, fmt.Errorf("encode dataset name: %w", err)
	}
	buf.WriteString(`{"name":`)
	buf.Write(name)
	buf.WriteString(`,"dataByCityID":{`)

	for i, id := range d.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, fmt.Errorf("encode city id %q: %w", id, err)
		}
		rec, err := json.Marshal(d.byID[id])
		if err != nil {
			return nil, fmt.Errorf("dataset %q: encode city %q: %w", d.Name, id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec)
	}

	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a dataset, keeping dataByCityID in document order.
// Keys are kept as written even when they differ from the record's id.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name         string          `json:"name"`
		DataByCityID json.RawMessage `json:"dataByCityID"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}

	*d = *NewDataset(raw.Name)
	if len(raw.DataByCityID) == 0 || bytes.Equal(raw.DataByCityID, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.DataByCityID))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("dataset %q: %w", raw.Name, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dataset %q: dataByCityID is not an object", raw.Name)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("dataset %q: %w", raw.Name, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dataset %q: unexpected token %v", raw.Name, tok)
		}
		var rec CityRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("dataset %q: city %q: %w", raw.Name, key, err)
		}
		d.set(key, rec)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("dataset %q: %w", raw.Name, err)
	}
	return nil
}
