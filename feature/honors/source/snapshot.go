package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"honor-sync/core/errors"
	"honor-sync/feature/honors/models"
)

type envelope struct {
	Honors []models.RawRecord `json:"honors"`
}

// ReadSnapshot decodes a snapshot. Numbers are kept as json.Number so honor
// and game ids survive without float rounding.
func ReadSnapshot(r io.Reader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInputUnavailable, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", errors.ErrInputUnavailable)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var records []models.RawRecord
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decode snapshot: %v", errors.ErrInputUnavailable, err)
		}
		return records, nil
	}

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", errors.ErrInputUnavailable, err)
	}
	if env.Honors == nil {
		return nil, fmt.Errorf("%w: snapshot has no honors array", errors.ErrInputUnavailable)
	}
	return env.Honors, nil
}

// LoadFile reads a snapshot from disk.
func LoadFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInputUnavailable, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// FilterYears keeps entries whose year is within [since, until].
// Zero bounds are open.
func FilterYears(entries []models.HonorEntry, since, until int) []models.HonorEntry {
	if since == 0 && until == 0 {
		return entries
	}
	out := make([]models.HonorEntry, 0, len(entries))
	for _, e := range entries {
		if since != 0 && e.Year < since {
			continue
		}
		if until != 0 && e.Year > until {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Limit returns at most n entries. n <= 0 means no limit.
func Limit(entries []models.HonorEntry, n int) []models.HonorEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
