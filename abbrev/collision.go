package abbrev

import "strconv"

// Resolve returns candidate when isAvailable accepts it, otherwise the first of candidate1,
// candidate2, ... that it accepts. isAvailable must reject only finitely many names.
func Resolve(candidate string, isAvailable func(string) bool) string {
	if isAvailable == nil || isAvailable(candidate) {
		return candidate
	}
	for index := 1; ; index++ {
		name := candidate + strconv.Itoa(index)
		if isAvailable(name) {
			return name
		}
	}
}
