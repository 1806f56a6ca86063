package web

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/zoo"
)

func (s *Server) handleAnimal(c echo.Context) error {
	var req AnimalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	kind, ok := s.pickKind(req)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unknown animal. Supported: " + kindList(),
		})
	}

	res, err := s.fetcher.Fetch(c.Request().Context(), kind)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	s.publishFetch(res)
	if req.Query != "" {
		s.publishResolution(req.Query, string(kind))
	}

	payload := zoo.Degrade(res)
	if payload.OK {
		message := req.Query
		if message == "" {
			message = fmt.Sprintf("Here's a %s!", kind)
		}
		return c.JSON(http.StatusOK, AnimalResponse{
			Success:  true,
			ImageURL: payload.URL,
			Animal:   string(kind),
			Message:  message,
		})
	}

	if res.Err.Kind == zoo.ErrRateLimited {
		retry := int(res.Err.RetryAfter.Seconds())
		if retry <= 0 {
			retry = 60
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error:      "External API rate limited. Please try again later.",
			RetryAfter: retry,
		})
	}

	log.Printf("[web] %s fetch failed: %v", kind, res.Err)
	return c.JSON(http.StatusOK, AnimalResponse{
		Success:  true,
		ImageURL: payload.Fallback,
		Animal:   string(kind),
		Message:  fmt.Sprintf("Here's a %s (from our backup collection)!", kind),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	overall := s.checker.CheckAll(c.Request().Context())
	status := http.StatusOK
	if overall.Status == fetch.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, overall)
}

func (s *Server) handleAnimals(c echo.Context) error {
	kinds := zoo.Kinds()
	animals := make([]string, len(kinds))
	for i, k := range kinds {
		animals[i] = string(k)
	}
	return c.JSON(http.StatusOK, AnimalsResponse{Animals: animals})
}

// pickKind resolves the request to a kind: the explicit animal field
// wins, otherwise the query is scanned for a kind name.
func (s *Server) pickKind(req AnimalRequest) (zoo.Kind, bool) {
	if req.Animal != "" {
		return zoo.ParseKind(strings.ToLower(strings.TrimSpace(req.Animal)))
	}
	if req.Query != "" {
		return s.keyword.Extract(req.Query)
	}
	return "", false
}

func kindList() string {
	kinds := zoo.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func (s *Server) publishFetch(res zoo.FetchResult) {
	if s.bus == nil || res.OK() {
		return
	}
	topic := eventbus.TopicFetchFailure
	if res.Err.Kind == zoo.ErrRateLimited {
		topic = eventbus.TopicRateLimited
	}
	s.bus.Publish(topic, eventbus.FetchEvent{Animal: res.Animal, URL: res.URL, Err: res.Err})
}

func (s *Server) publishResolution(query, tool string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.TopicQueryResolved, eventbus.ResolutionEvent{Query: query, Tool: tool})
}
