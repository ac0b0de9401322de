package decision

import "github.com/poiesic/matchmaker/core"

// diversityWindow is the number of leading matches checked for a shared category.
const diversityWindow = 3

// InjectDiversity breaks up a ranked list whose top three entries share a
// category. The highest ranked entry from position four onwards with a
// different category is moved to position two and the entries between
// shift down by one. The returned bool reports whether anything moved.
//
// The input is not modified. Applying InjectDiversity to its own output
// changes nothing, because the top three no longer share a category.
func InjectDiversity(ranked []core.RankedCommunity) ([]core.RankedCommunity, bool) {
	out := make([]core.RankedCommunity, len(ranked))
	copy(out, ranked)
	if len(out) <= diversityWindow || !sameCategory(out[:diversityWindow]) {
		return out, false
	}

	lead := out[0].Category
	for i := diversityWindow; i < len(out); i++ {
		if categoriesEqual(out[i].Category, lead) {
			continue
		}
		moved := out[i]
		copy(out[2:i+1], out[1:i])
		out[1] = moved
		return out, true
	}
	return out, false
}

func sameCategory(list []core.RankedCommunity) bool {
	for _, c := range list[1:] {
		if !categoriesEqual(c.Category, list[0].Category) {
			return false
		}
	}
	return true
}

// categoriesEqual compares categories. An empty category is a group of its
// own and never equals anything, including another empty category.
func categoriesEqual(a, b string) bool {
	return a != "" && a == b
}
