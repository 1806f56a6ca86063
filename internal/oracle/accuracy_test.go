package oracle

import (
	"testing"

	"pettingzoo/internal/zoo"
)

// Labeled by intent, not by what the scanner happens to do. The
// keyword path is expected to miss synonyms; the floor below leaves
// room for that.
var labeledQueries = []struct {
	query string
	want  zoo.Kind
	match bool
}{
	{"Show me a duck", zoo.KindDuck, true},
	{"I want a cat picture", zoo.KindCat, true},
	{"asldkj dog", zoo.KindDog, true},
	{"tell me about elephants", "", false},
	{"Fetch me a DOG", zoo.KindDog, true},
	{"duck please", zoo.KindDuck, true},
	{"Can I see a kitten?", zoo.KindCat, true},
	{"I'd love a puppy photo", zoo.KindDog, true},
	{"show me a bird", "", false},
	{"what does a cat look like", zoo.KindCat, true},
}

func TestKeywordResolutionAccuracy(t *testing.T) {
	var kw KeywordResolver
	correct := 0

	for _, lq := range labeledQueries {
		kind, ok := kw.Extract(lq.query)
		if ok == lq.match && kind == lq.want {
			correct++
		} else {
			t.Logf("miss: %q -> (%s, %v), want (%s, %v)", lq.query, kind, ok, lq.want, lq.match)
		}
	}

	accuracy := float64(correct) / float64(len(labeledQueries))
	t.Logf("keyword resolution accuracy: %.0f%% (%d/%d)", accuracy*100, correct, len(labeledQueries))
	if accuracy < 0.70 {
		t.Fatalf("accuracy %.0f%% below 70%% floor", accuracy*100)
	}
}

func TestKeywordExtract(t *testing.T) {
	var kw KeywordResolver

	tests := []struct {
		query string
		want  zoo.Kind
		ok    bool
	}{
		{"show me a duck", zoo.KindDuck, true},
		{"DOG", zoo.KindDog, true},
		{"something with a Cat in it", zoo.KindCat, true},
		{"nothing here", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		kind, ok := kw.Extract(tt.query)
		if ok != tt.ok || kind != tt.want {
			t.Errorf("Extract(%q) = (%s, %v), want (%s, %v)", tt.query, kind, ok, tt.want, tt.ok)
		}
	}
}

func TestKeywordExtractScanOrder(t *testing.T) {
	var kw KeywordResolver

	// Scan order is duck, dog, cat; the first kind present wins even
	// when another appears earlier in the text.
	kind, ok := kw.Extract("my cat is cuter than your dog")
	if !ok || kind != zoo.KindDog {
		t.Errorf("expected dog by scan order, got (%s, %v)", kind, ok)
	}
}
