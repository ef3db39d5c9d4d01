package emitter

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/toyz/axon-debug/internal/diagnostic"
)

// fingerprintSpace namespaces diagnostic fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/toyz/axon-debug/diagnostic"))

// Fingerprint identifies a diagnostic by rule and location. It does not
// depend on the message, so rewording a rule keeps fingerprints stable.
func Fingerprint(d diagnostic.Diagnostic) uuid.UUID {
	key := fmt.Sprintf("%s\x00%s\x00%d\x00%d", d.RuleID, d.Span.File, d.Span.Start.Offset, d.Span.End.Offset)
	return uuid.NewSHA1(fingerprintSpace, []byte(key))
}

// Record is the JSON form of a diagnostic.
type Record struct {
	Fingerprint uuid.UUID `json:"fingerprint"`
	Severity    string    `json:"severity"`
	diagnostic.Diagnostic
}

// JSON collects diagnostics and writes them as one array on Close.
type JSON struct {
	tracker
	w       io.Writer
	records []Record
}

// NewJSON returns a JSON emitter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w, records: []Record{}}
}

func (j *JSON) Emit(d diagnostic.Diagnostic) error {
	j.record(d)
	j.records = append(j.records, Record{
		Fingerprint: Fingerprint(d),
		Severity:    "error",
		Diagnostic:  d,
	})
	return nil
}

func (j *JSON) Close() error {
	data, err := json.MarshalIndent(j.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	data = append(data, '\n')
	_, err = j.w.Write(data)
	return err
}
