package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// A single diagnostic attached to a step or to the client info.
type Field struct {
	Key   string
	Value string
}

// Ordered diagnostics. Order is preserved when rendered and when encoded as a
// JSON object.
type Fields []Field

// Appends key with the string form of value.
func (f *Fields) Add(key string, value any) {
	*f = append(*f, Field{Key: key, Value: formatValue(value)})
}

// Returns the value stored under key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Encodes the fields as a JSON object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Duration:
		return v.Round(time.Millisecond).String()
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Outcome of one action step.
type StepResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Fields  Fields `json:"fields"`
}

// Identifies the client and invocation a result belongs to.
type ClientInfo struct {
	Success  bool          `json:"success"`
	BuildID  string        `json:"build_id"`
	Job      string        `json:"job"`
	Host     string        `json:"host"`
	OS       string        `json:"os"`
	Arch     string        `json:"arch"`
	Tags     []string      `json:"tags"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
}

// Returns the client info as ordered key/value pairs, success first.
func (c ClientInfo) Fields() Fields {
	var f Fields
	f.Add("success", c.Success)
	f.Add("build_id", c.BuildID)
	f.Add("job", c.Job)
	f.Add("host", c.Host)
	f.Add("os", c.OS)
	f.Add("arch", c.Arch)
	f.Add("tags", c.Tags)
	f.Add("started", c.Started)
	f.Add("duration", c.Duration)
	return f
}

// Complete outcome of one build invocation.
type Result struct {
	ClientInfo ClientInfo   `json:"client_info"`
	Steps      []StepResult `json:"results"`
}

// Reports whether every step succeeded. An empty sequence succeeds.
func Aggregate(steps []StepResult) bool {
	for _, step := range steps {
		if !step.Success {
			return false
		}
	}
	return true
}
