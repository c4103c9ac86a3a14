package semantic

import (
	"encoding/json"
	"strings"
)

func buildColumnPrompt(headers []string) string {
	list, _ := json.Marshal(headers)
	var b strings.Builder
	b.WriteString(`
You classify spreadsheet column headers of a restaurant menu export.

Canonical fields:
- "name": the product or dish name
- "category": the menu section or product group
- "description": ingredients, details or notes shown to guests
- "price": the selling price

Rules:
- Output MUST be a single JSON object and nothing else.
- Keys are the headers exactly as given.
- Values are one of "name", "category", "description", "price" or null.
- Use each canonical field at most once.
- Identifiers, SKUs, stock, dates and image links map to null.
- NO markdown. NO explanations.

Headers:
`)
	b.Write(list)
	return b.String()
}
