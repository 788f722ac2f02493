package cargo

import "github.com/aidanlsb/mtpoi/internal/model"

// Expand returns rules followed by the rules derived from the taxonomy: for
// every rule whose cargo key is unset, one rule per item of its cargo type,
// carrying the same capacity and type. Input rules are kept first and
// unchanged; unknown types contribute nothing.
func Expand(rules []model.StorageRule, tax Taxonomy) []model.StorageRule {
	extra := 0
	for _, r := range rules {
		if r.KeyUnset() {
			extra += len(tax[r.CargoType])
		}
	}
	out := make([]model.StorageRule, len(rules), len(rules)+extra)
	copy(out, rules)
	for _, r := range rules {
		if !r.KeyUnset() {
			continue
		}
		for _, item := range tax[r.CargoType] {
			out = append(out, model.StorageRule{
				CargoType:  r.CargoType,
				CargoKey:   item,
				MaxStorage: r.MaxStorage,
			})
		}
	}
	return out
}
