package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"menu-upload-service/internal/menuimport/model"
)

// PreviewRows is how many parsed rows a detection result carries.
const PreviewRows = 5

// SemanticMatcher resolves headers the keyword lists could not. It returns
// header → field; headers it cannot place are absent or map to "".
// An error means the capability is unavailable for this call.
type SemanticMatcher interface {
	MatchColumns(ctx context.Context, headers []string) (map[string]model.Field, error)
}

// Detector combines the synonym pass with an optional semantic fallback.
type Detector struct {
	fallback SemanticMatcher
	log      zerolog.Logger
}

// NewDetector accepts a nil fallback; detection then stays synonym-only.
func NewDetector(fallback SemanticMatcher, log zerolog.Logger) *Detector {
	return &Detector{fallback: fallback, log: log}
}

// DetectMapping runs the synonym pass and, only when fields remain
// unresolved, the semantic fallback. Synonym results are never overwritten.
func (d *Detector) DetectMapping(ctx context.Context, headers []string) (model.Mapping, model.DetectionMethod, []model.HeaderMatch) {
	syn := MatchSynonyms(headers)
	mapping := syn.Mapping
	resolved := mapping.Resolved()
	if resolved == len(model.Fields) {
		return mapping, model.MethodSynonym, syn.Matches
	}
	if d.fallback == nil {
		return mapping, model.MethodSynonym, syn.Matches
	}

	guesses, err := d.callFallback(ctx, headers)
	if err != nil {
		d.log.Warn().Err(err).Strs("missing", fieldNames(mapping.Missing())).Msg("semantic column matching unavailable")
		return mapping, model.MethodSynonym, syn.Matches
	}

	for i, h := range headers {
		f, ok := guesses[h]
		if !ok || f == "" || syn.Ignored(i) {
			continue
		}
		if _, known := model.ParseField(string(f)); !known {
			continue
		}
		if _, taken := mapping.Get(f); taken {
			continue
		}
		if _, used := mapping.FieldAt(i); used {
			continue
		}
		mapping.Set(f, i)
		field := f
		syn.Matches[i].Field = &field
	}

	method := model.MethodAI
	if resolved > 0 {
		method = model.MethodHybrid
	}
	d.log.Debug().
		Int("synonym_resolved", resolved).
		Int("resolved", mapping.Resolved()).
		Str("method", string(method)).
		Msg("semantic column matching applied")
	return mapping, method, syn.Matches
}

func (d *Detector) callFallback(ctx context.Context, headers []string) (out map[string]model.Field, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("semantic matcher panicked: %v", rec)
		}
	}()
	return d.fallback.MatchColumns(ctx, headers)
}

// Detect builds the full detection result for a parsed sheet.
func (d *Detector) Detect(ctx context.Context, headers []string, rows []model.RawRow) model.DetectionResult {
	mapping, method, matches := d.DetectMapping(ctx, headers)
	res := buildResult(headers, rows, mapping, method)
	res.Matches = matches
	return res
}

// ApplyManualMapping overrides detected columns with caller-chosen ones.
// A column taken by an override is released from any other field.
func ApplyManualMapping(res model.DetectionResult, overrides map[model.Field]int) (model.DetectionResult, error) {
	mapping := res.Mapping
	for _, f := range model.Fields {
		idx, ok := overrides[f]
		if !ok {
			continue
		}
		if idx < 0 || idx >= len(res.Headers) {
			return res, fmt.Errorf("%w: %s column %d out of range", ErrInvalidMapping, f, idx)
		}
		for _, other := range model.Fields {
			if other == f {
				continue
			}
			if j, ok := overrides[other]; ok && j == idx {
				return res, fmt.Errorf("%w: column %d chosen for both %s and %s", ErrInvalidMapping, idx, f, other)
			}
		}
		if prev, ok := mapping.FieldAt(idx); ok && prev != f {
			mapping.Clear(prev)
		}
		mapping.Set(f, idx)
	}
	out := buildResult(res.Headers, res.AllData, mapping, model.MethodManual)
	out.Matches = res.Matches
	return out, nil
}

func buildResult(headers []string, rows []model.RawRow, mapping model.Mapping, method model.DetectionMethod) model.DetectionResult {
	n := min(len(rows), PreviewRows)
	preview := make([]model.ParsedRow, 0, n)
	for _, r := range rows[:n] {
		preview = append(preview, ParseRow(r, mapping))
	}
	return model.DetectionResult{
		Mapping:         mapping,
		Headers:         headers,
		PreviewData:     preview,
		MissingFields:   mapping.Missing(),
		AllData:         rows,
		DetectionMethod: method,
	}
}

func fieldNames(fs []model.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
