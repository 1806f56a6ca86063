package zoo

// Kind identifies one of the supported animals.
type Kind string

const (
	KindDuck Kind = "duck"
	KindDog  Kind = "dog"
	KindCat  Kind = "cat"
)

// kinds is the closed set of supported animals, in presentation order.
var kinds = []Kind{KindDuck, KindDog, KindCat}

// Kinds returns the supported animal kinds. The returned slice is a copy.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind validates a raw string against the closed set of kinds.
// It is the only gate: anything it rejects must never reach a fetcher.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindDuck, KindDog, KindCat:
		return Kind(s), true
	}
	return "", false
}
