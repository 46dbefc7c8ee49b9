package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// maxSourceSize caps how much of a data source is read (32MB).
const maxSourceSize = 32 << 20

// DecodeRecords decodes a JSON array of flat objects into records, keeping
// each object's key order. Scalars become text; null becomes "". Nested
// objects and arrays are kept as compact JSON text.
func DecodeRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("invalid json: expected array of objects")
	}

	var records []Record
	for dec.More() {
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("invalid json: record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return records, nil
}

func decodeObject(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var rec Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		value, err := scalarText(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec = append(rec, Field{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}
	switch trimmed[0] {
	case 'n':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(trimmed))
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return numberText(string(trimmed)), nil
	}
}

// Fetcher reads a data source from a file path or an http(s) URL.
type Fetcher struct {
	Client *http.Client
}

// Fetch reads and decodes the records at source.
func (f Fetcher) Fetch(ctx context.Context, source string) ([]Record, error) {
	if source == "" {
		return nil, fmt.Errorf("no data source configured")
	}

	body, err := f.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	records, err := DecodeRecords(io.LimitReader(body, maxSourceSize))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return records, nil
}

func (f Fetcher) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open data source: %w", err)
		}
		return file, nil
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch data source: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch data source: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// numberText renders a JSON number in its shortest decimal form, so 1.0 and
// 1e3 load as "1" and "1000".
func numberText(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
