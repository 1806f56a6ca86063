package web

// AnimalRequest is the POST /api/animal body. Animal addresses a kind
// directly; Query goes through the keyword extractor.
type AnimalRequest struct {
	Query  string `json:"query,omitempty"`
	Animal string `json:"animal,omitempty"`
}

// AnimalResponse is the success shape for /api/animal. A degraded
// fetch still answers with Success true and the fallback asset.
type AnimalResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Animal   string `json:"animal"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse is the error shape shared by every endpoint.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// AnimalsResponse lists the supported kinds.
type AnimalsResponse struct {
	Animals []string `json:"animals"`
}
