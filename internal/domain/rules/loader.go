package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// ErrEmptyRules is returned when a rules document contains no rules at all.
var ErrEmptyRules = errors.New("rules document defines no rules")

// Load reads a rule set from path, dispatching on extension (.json or .csv).
// A missing file falls back to the built-in defaults; that is the historical
// behavior for fresh installations.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a rule set from JSON. Three shapes are accepted:
//
//   - an ordered array: [{"category":..., "rate_percent":..., "keywords":[...]}]
//   - a category mapping: {"standard": {"rate_percent": 20, "keywords": [...]}}
//   - the legacy split form: {"tva_rates": {...}, "keywords": {...}}
//
// For the mapping forms, key order in the document becomes rule order: the
// decoder walks tokens instead of unmarshaling into a Go map, which would
// destroy the ordering classification depends on.
func ParseJSON(data []byte) (*RuleSet, error) {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(trimmed) == 0 {
		return nil, ErrEmptyRules
	}

	if trimmed[0] == '[' {
		return parseRuleArray(trimmed)
	}

	entries, err := decodeOrderedObject(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse rules JSON: %w", err)
	}
	if isLegacyForm(entries) {
		return parseLegacyObject(entries)
	}
	return parseRuleMapping(entries)
}

type ruleDocument struct {
	Category    string   `json:"category"`
	RatePercent float64  `json:"rate_percent"`
	Keywords    []string `json:"keywords"`
}

func parseRuleArray(data []byte) (*RuleSet, error) {
	var docs []ruleDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse rules JSON: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyRules
	}
	ruleList := make([]TaxRule, len(docs))
	for i, d := range docs {
		ruleList[i] = TaxRule{Category: d.Category, RatePercent: d.RatePercent, Keywords: d.Keywords}
	}
	return New(ruleList)
}

// orderedEntry is one key/value pair of a JSON object, in document order.
type orderedEntry struct {
	key string
	raw json.RawMessage
}

func decodeOrderedObject(data []byte) ([]orderedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []orderedEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		entries = append(entries, orderedEntry{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return entries, nil
}

func isLegacyForm(entries []orderedEntry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.key != "tva_rates" && e.key != "keywords" {
			return false
		}
	}
	return true
}

// parseLegacyObject handles {"tva_rates": {cat: rate}, "keywords": {cat: [...]}}.
// Rule order follows the tva_rates key order. Keyword entries naming a
// category without a rate make the whole set invalid.
func parseLegacyObject(entries []orderedEntry) (*RuleSet, error) {
	var rateEntries, keywordEntries []orderedEntry
	for _, e := range entries {
		inner, err := decodeOrderedObject(e.raw)
		if err != nil {
			return nil, fmt.Errorf("parse rules JSON: %w", err)
		}
		switch e.key {
		case "tva_rates":
			rateEntries = inner
		case "keywords":
			keywordEntries = inner
		}
	}
	if len(rateEntries) == 0 {
		return nil, ErrEmptyRules
	}

	keywords := make(map[string][]string, len(keywordEntries))
	for _, e := range keywordEntries {
		var kws []string
		if err := json.Unmarshal(e.raw, &kws); err != nil {
			return nil, fmt.Errorf("parse keywords for %q: %w", e.key, err)
		}
		keywords[e.key] = kws
	}

	ruleList := make([]TaxRule, 0, len(rateEntries))
	rated := make(map[string]struct{}, len(rateEntries))
	for _, e := range rateEntries {
		var rate float64
		if err := json.Unmarshal(e.raw, &rate); err != nil {
			return nil, fmt.Errorf("parse rate for %q: %w", e.key, err)
		}
		rated[e.key] = struct{}{}
		ruleList = append(ruleList, TaxRule{
			Category:    e.key,
			RatePercent: rate,
			Keywords:    keywords[e.key],
		})
	}

	for _, e := range keywordEntries {
		if _, ok := rated[e.key]; !ok {
			return nil, &InvalidRuleSetError{Category: e.key}
		}
	}
	return New(ruleList)
}

// parseRuleMapping handles {cat: {"rate_percent": n, "keywords": [...]}}.
func parseRuleMapping(entries []orderedEntry) (*RuleSet, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRules
	}
	ruleList := make([]TaxRule, 0, len(entries))
	for _, e := range entries {
		var body struct {
			RatePercent *float64 `json:"rate_percent"`
			Keywords    []string `json:"keywords"`
		}
		if err := json.Unmarshal(e.raw, &body); err != nil {
			return nil, fmt.Errorf("parse rule %q: %w", e.key, err)
		}
		if body.RatePercent == nil {
			return nil, &InvalidRuleSetError{Category: e.key}
		}
		ruleList = append(ruleList, TaxRule{
			Category:    e.key,
			RatePercent: *body.RatePercent,
			Keywords:    body.Keywords,
		})
	}
	return New(ruleList)
}

// ruleRecord is the CSV row shape. Keywords are pipe-separated inside the
// cell so they can themselves contain commas and spaces.
type ruleRecord struct {
	Category    string  `csv:"category"`
	RatePercent float64 `csv:"rate_percent"`
	Keywords    string  `csv:"keywords"`
}

// ParseCSV decodes a rule set from CSV with columns category, rate_percent,
// keywords. Row order becomes rule order.
func ParseCSV(data []byte) (*RuleSet, error) {
	var records []ruleRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("parse rules CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyRules
	}

	ruleList := make([]TaxRule, 0, len(records))
	for _, rec := range records {
		var kws []string
		for _, kw := range strings.Split(rec.Keywords, "|") {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		ruleList = append(ruleList, TaxRule{
			Category:    rec.Category,
			RatePercent: rec.RatePercent,
			Keywords:    kws,
		})
	}
	return New(ruleList)
}
