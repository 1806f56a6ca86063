package zoo

import "fmt"

// FallbackAssets maps each animal kind to a static substitute image, shown
// whenever the live fetch fails. Read-only after initialization; a missing
// entry for a kind is a configuration bug, not a runtime path.
var FallbackAssets = map[Kind]string{
	KindDuck: "https://i.pinimg.com/736x/c2/16/df/c216df7a2af5dc737c9b2041ef295835.jpg",
	KindDog:  "https://images.dog.ceo/breeds/retriever-golden/n02099601_1004.jpg",
	KindCat:  "https://cdn2.thecatapi.com/images/MTY3ODIyMQ.jpg",
}

// Payload is the user-presentable form of a FetchResult.
type Payload struct {
	OK       bool   `json:"ok"`
	Animal   Kind   `json:"animal"`
	URL      string `json:"url,omitempty"`
	Fallback string `json:"fallback_asset,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Degrade converts any FetchResult into a presentable payload. It is pure:
// no I/O, no randomness, same input always yields the same payload.
func Degrade(r FetchResult) Payload {
	if r.OK() {
		return Payload{OK: true, Animal: r.Animal, URL: r.URL}
	}
	return Payload{
		OK:       false,
		Animal:   r.Animal,
		Fallback: FallbackAssets[r.Animal],
		Message:  humanize(r.Animal, r.Err),
	}
}

// humanize maps a fetch error to the message shown to users. Raw error
// details stay in logs; users only ever see these strings.
func humanize(animal Kind, err *FetchError) string {
	if err == nil {
		return ""
	}
	switch err.Kind {
	case ErrRateLimited:
		if err.RetryAfter > 0 {
			return fmt.Sprintf("The %s API is busy right now. Please try again in %d seconds.", animal, int(err.RetryAfter.Seconds()))
		}
		return fmt.Sprintf("The %s API is busy right now. Please try again in a moment.", animal)
	case ErrTimeout:
		return fmt.Sprintf("The %ss are being shy and taking their time. Please try again!", animal)
	case ErrHTTP:
		if err.Status >= 500 {
			return fmt.Sprintf("The %s API is temporarily unavailable. Please try again later.", animal)
		}
		return fmt.Sprintf("The %s API is having issues. Please try again later.", animal)
	case ErrEmptyResponse:
		return fmt.Sprintf("No %s images available right now. Please try again later.", animal)
	}
	return "Something went wrong. Please try again later."
}
