package web

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pettingzoo/internal/oracle"
	"pettingzoo/internal/zoo"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // page is served same-origin; local dev UIs connect cross-origin
	},
}

// SafeConn serializes writes; gorilla permits one concurrent writer.
type SafeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *SafeConn) WriteJSON(v any) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteJSON(v)
}

// wsFrame is the frame shape in both directions. Incoming frames carry
// type "query"; outgoing frames are "result" (a degraded fetch payload)
// or "text".
type wsFrame struct {
	Type    string       `json:"type"`
	Text    string       `json:"text,omitempty"`
	Payload *zoo.Payload `json:"payload,omitempty"`
}

func (s *Server) handleWS(c echo.Context) error {
	rawConn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	conn := &SafeConn{Conn: rawConn}
	id := uuid.NewString()
	log.Printf("[web] ws client %s connected", id)
	defer func() {
		conn.Close()
		log.Printf("[web] ws client %s disconnected", id)
	}()

	ctx := c.Request().Context()
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return nil
		}
		if frame.Type != "query" || frame.Text == "" {
			continue
		}
		if err := conn.WriteJSON(s.resolveQuery(ctx, frame.Text)); err != nil {
			return nil
		}
	}
}

// resolveQuery maps one chat line to a reply frame. Animal keywords
// resolve without touching the model; the resolver, when configured,
// picks up whatever the keywords miss and makes the full tool set
// reachable.
func (s *Server) resolveQuery(ctx context.Context, text string) wsFrame {
	if kind, ok := s.keyword.Extract(text); ok {
		return s.invokeTool(ctx, text, string(kind), nil)
	}

	if s.resolver != nil {
		res, err := s.resolver.Resolve(ctx, text, s.registry.Definitions())
		if err != nil {
			log.Printf("[web] ws resolve failed: %v", err)
			return wsFrame{Type: "text", Text: "Something went wrong reaching the model. Please try again."}
		}
		if !res.Matched() {
			s.publishResolution(text, "")
			return wsFrame{Type: "text", Text: res.Reply}
		}
		return s.invokeTool(ctx, text, res.Tool, res.Arguments)
	}

	s.publishResolution(text, "")
	return wsFrame{Type: "text", Text: oracle.NoMatchReply}
}

func (s *Server) invokeTool(ctx context.Context, query, name string, args []byte) wsFrame {
	res, err := s.registry.Invoke(ctx, name, args)
	if err != nil {
		log.Printf("[web] ws tool %s failed: %v", name, err)
		return wsFrame{Type: "text", Text: "Sorry, that didn't work. Please try again."}
	}
	s.publishResolution(query, name)

	if res.Fetch != nil {
		payload := zoo.Degrade(*res.Fetch)
		return wsFrame{Type: "result", Payload: &payload}
	}
	return wsFrame{Type: "text", Text: res.Text}
}
