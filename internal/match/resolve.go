package match

import "github.com/glarusbooks/bankrec/internal/model"

// Resolve merges operator overrides with the automatic matches into the
// effective booking decision per row.
//
// A manual assignment is honored only when the row is neither invalid nor
// ignored and the assigned document id resolves to a real open document.
// Without a usable override the automatic match, if any, stands.
func Resolve(results []model.MatchResult, overrides map[string]string, docs []model.OpenDocument) []model.ResolvedRow {
	byID := make(map[string]*model.OpenDocument, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	resolved := make([]model.ResolvedRow, len(results))
	for i, res := range results {
		row := model.ResolvedRow{MatchResult: res, EffectiveStatus: res.Status}

		overridable := res.Status != model.StatusInvalid && res.Status != model.StatusIgnored
		if docID, ok := overrides[res.ID]; ok && overridable {
			if doc, exists := byID[docID]; exists {
				row.ResolvedMatch = doc
				row.EffectiveStatus = model.StatusMatched
				row.IsManual = true
			}
		}
		if row.ResolvedMatch == nil && overridable && res.Match != nil {
			row.ResolvedMatch = res.Match
			row.EffectiveStatus = model.StatusMatched
		}

		resolved[i] = row
	}
	return resolved
}
