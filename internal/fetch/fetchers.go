package fetch

import (
	"context"
	"log"
	"strings"

	"pettingzoo/internal/zoo"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// isImageURL filters out the videos the dog API occasionally serves.
func isImageURL(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (c *Client) fetchDuck(ctx context.Context) zoo.FetchResult {
	var body struct {
		URL string `json:"url"`
	}
	if fe := c.getJSON(ctx, c.cfg.DuckURL, &body); fe != nil {
		return zoo.Failure(zoo.KindDuck, fe)
	}
	if body.URL == "" {
		return zoo.Failure(zoo.KindDuck, &zoo.FetchError{
			Kind:   zoo.ErrEmptyResponse,
			Detail: "response missing url field",
		})
	}
	return zoo.Success(zoo.KindDuck, body.URL)
}

// fetchDog tries the primary API first and falls back to the secondary
// one. The pair is one logical fetch; when both fail the primary error
// is the one reported.
func (c *Client) fetchDog(ctx context.Context) zoo.FetchResult {
	primary := c.fetchDogFrom(ctx, c.cfg.DogURL, "url")
	if primary.OK() {
		return primary
	}
	log.Printf("[fetch] primary dog API failed (%v), trying fallback", primary.Err)

	fallback := c.fetchDogFrom(ctx, c.cfg.DogFallbackURL, "message")
	if fallback.OK() {
		return fallback
	}
	return primary
}

// fetchDogFrom handles both dog APIs; they differ only in which field
// carries the image URL.
func (c *Client) fetchDogFrom(ctx context.Context, apiURL, field string) zoo.FetchResult {
	var body struct {
		URL     string `json:"url"`
		Message string `json:"message"`
	}
	if fe := c.getJSON(ctx, apiURL, &body); fe != nil {
		return zoo.Failure(zoo.KindDog, fe)
	}

	url := body.URL
	if field == "message" {
		url = body.Message
	}
	if url == "" {
		return zoo.Failure(zoo.KindDog, &zoo.FetchError{
			Kind:   zoo.ErrEmptyResponse,
			Detail: "response missing " + field + " field",
		})
	}
	if !isImageURL(url) {
		return zoo.Failure(zoo.KindDog, &zoo.FetchError{
			Kind:   zoo.ErrEmptyResponse,
			Detail: "non-image url: " + url,
		})
	}
	return zoo.Success(zoo.KindDog, url)
}

func (c *Client) fetchCat(ctx context.Context) zoo.FetchResult {
	var body []struct {
		URL string `json:"url"`
	}
	if fe := c.getJSON(ctx, c.cfg.CatURL, &body); fe != nil {
		return zoo.Failure(zoo.KindCat, fe)
	}
	if len(body) == 0 || body[0].URL == "" {
		return zoo.Failure(zoo.KindCat, &zoo.FetchError{
			Kind:   zoo.ErrEmptyResponse,
			Detail: "empty response from API",
		})
	}
	return zoo.Success(zoo.KindCat, body[0].URL)
}
