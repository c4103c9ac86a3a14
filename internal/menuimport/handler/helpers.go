package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"menu-upload-service/internal/fileio"
	"menu-upload-service/internal/menuimport/model"
)

func (h *Handler) readUpload(r *http.Request) (*fileio.Sheet, string, error) {
	if err := r.ParseMultipartForm(int64(h.maxUploadMB) << 20); err != nil {
		return nil, "", fmt.Errorf("bad multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file: %w", err)
	}
	defer file.Close()

	if !fileio.Supported(header.Filename) {
		return nil, header.Filename, fmt.Errorf("%w: %s", fileio.ErrUnsupportedFile, header.Filename)
	}
	sheet, err := fileio.ReadSheet(file, header.Filename, atoi(r.FormValue("header_row"), 1))
	if err != nil {
		return nil, header.Filename, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	return sheet, header.Filename, nil
}

// parseOverrides reads map_<field> form values. A value is a zero-based
// column index or a header name.
func parseOverrides(r *http.Request, headers []string) (map[model.Field]int, error) {
	var out map[model.Field]int
	for _, f := range model.Fields {
		v := strings.TrimSpace(r.FormValue("map_" + string(f)))
		if v == "" {
			continue
		}
		idx, ok := columnIndex(v, headers)
		if !ok {
			return nil, fmt.Errorf("map_%s: unknown column %q", f, v)
		}
		if out == nil {
			out = make(map[model.Field]int)
		}
		out[f] = idx
	}
	return out, nil
}

func columnIndex(v string, headers []string) (int, bool) {
	if i, err := strconv.Atoi(v); err == nil {
		return i, true
	}
	key := normHeaderKey(v)
	for i, h := range headers {
		if normHeaderKey(h) == key {
			return i, true
		}
	}
	return 0, false
}

func normHeaderKey(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeJSON encodes before writing the status, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"internal"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, details map[string]string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func fieldStrings(fs []model.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
