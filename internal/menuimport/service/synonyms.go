package service

import (
	"sort"
	"strings"

	"menu-upload-service/internal/menuimport/model"
)

// Keyword lists are English + Romanian and written already normalized
// (lowercase, no diacritics). Keywords of three letters or fewer only
// match a whole header token.
var synonyms = map[model.Field][]string{
	model.FieldName: {
		"product name", "item name", "dish name", "product", "produs", "produse",
		"item", "dish", "name", "title", "denumire", "nume", "articol", "preparat",
	},
	model.FieldCategory: {
		"category", "categories", "categorie", "categoria", "group", "grupa",
		"section", "sectiune", "sectie", "type", "tip", "course", "meniu tip",
	},
	model.FieldDescription: {
		"description", "descriere", "desc", "details", "detalii", "ingredients",
		"ingrediente", "compozitie", "info", "notes", "note", "summary", "continut",
	},
	model.FieldPrice: {
		"price", "pret", "preturi", "cost", "amount", "valoare", "suma", "tarif",
		"lei", "ron", "eur", "usd",
	},
}

// ignoreTokens exclude a header from matching when any of its tokens is listed.
var ignoreTokens = map[string]struct{}{
	"id": {}, "uuid": {}, "sku": {}, "code": {}, "cod": {}, "barcode": {}, "ean": {}, "upc": {},
	"stock": {}, "stoc": {}, "qty": {}, "quantity": {}, "cantitate": {}, "inventory": {},
	"created": {}, "updated": {}, "modified": {}, "timestamp": {}, "date": {},
	"image": {}, "imagine": {}, "photo": {}, "foto": {}, "url": {},
}

const (
	exactBonus      = 100
	typoThreshold   = 0.8
	typoMinLen      = 5
	shortKeywordLen = 3
)

// SynonymResult is the synonym pass output: a mapping plus a per-header trace.
type SynonymResult struct {
	Mapping model.Mapping
	Matches []model.HeaderMatch
	ignored []bool
}

// Ignored reports whether column i was excluded by the ignore list.
func (r SynonymResult) Ignored(i int) bool {
	return i >= 0 && i < len(r.ignored) && r.ignored[i]
}

// MatchSynonyms maps headers to canonical fields by keyword.
//
// Every (header, field) pair is scored: an exact header match beats
// containment, and a longer keyword beats a shorter one. Pairs are then
// assigned best score first, skipping columns and fields already taken,
// so a header that loses one field can still win another. Ties go to the
// earlier header, then the earlier field.
func MatchSynonyms(headers []string) SynonymResult {
	res := SynonymResult{
		Matches: make([]model.HeaderMatch, len(headers)),
		ignored: make([]bool, len(headers)),
	}

	type candidate struct {
		col   int
		field int
		score int
	}
	var cands []candidate

	for i, h := range headers {
		res.Matches[i] = model.HeaderMatch{Header: h}
		norm := normalizeHeader(h)
		tokens := strings.Fields(norm)
		if norm == "" {
			continue
		}
		if isIgnored(tokens) {
			res.ignored[i] = true
			res.Matches[i].Ignored = true
			continue
		}
		for fi, score := range fieldScores(norm, tokens) {
			if score > 0 {
				cands = append(cands, candidate{col: i, field: fi, score: score})
			}
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.col != cb.col {
			return ca.col < cb.col
		}
		return ca.field < cb.field
	})

	for _, c := range cands {
		f := model.Fields[c.field]
		if _, taken := res.Mapping.Get(f); taken {
			continue
		}
		if res.Matches[c.col].Field != nil {
			continue
		}
		res.Mapping.Set(f, c.col)
		res.Matches[c.col].Field = &f
	}
	return res
}

func isIgnored(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := ignoreTokens[t]; ok {
			return true
		}
	}
	return false
}

// fieldScores returns one score per entry of model.Fields. The typo tier
// only applies when no keyword matched the header literally.
func fieldScores(norm string, tokens []string) []int {
	scores := make([]int, len(model.Fields))
	literal := false
	for fi, f := range model.Fields {
		scores[fi] = keywordScore(norm, tokens, synonyms[f])
		literal = literal || scores[fi] > 0
	}
	if literal {
		return scores
	}

	// nothing matched literally: allow one typo on longer words
	bestSim, bestField := 0.0, -1
	for fi, f := range model.Fields {
		for _, kw := range synonyms[f] {
			if len(kw) < typoMinLen || strings.Contains(kw, " ") {
				continue
			}
			for _, t := range tokens {
				if len(t) < typoMinLen {
					continue
				}
				if sim := similarity(t, kw); sim >= typoThreshold && sim > bestSim {
					bestSim, bestField = sim, fi
				}
			}
		}
	}
	if bestField >= 0 {
		scores[bestField] = 1
	}
	return scores
}

func keywordScore(norm string, tokens []string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		s := 0
		switch {
		case norm == kw:
			s = exactBonus + len(kw)
		case len(kw) <= shortKeywordLen:
			if hasToken(tokens, kw) {
				s = len(kw)
			}
		case strings.Contains(norm, kw):
			s = len(kw)
		}
		score = max(score, s)
	}
	return score
}

func hasToken(tokens []string, kw string) bool {
	for _, t := range tokens {
		if t == kw {
			return true
		}
	}
	return false
}
