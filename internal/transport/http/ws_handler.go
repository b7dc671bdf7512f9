package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type addPayload struct {
	Name string `json:"name"`
}

type idPayload struct {
	ID string `json:"id"`
}

type scorePayload struct {
	Correct bool `json:"correct"`
}

type adjustPayload struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

type settingsPayload struct {
	Category   *domain.Category   `json:"category"`
	Difficulty *domain.Difficulty `json:"difficulty"`
	Language   *domain.Language   `json:"language"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
// Without a sessionId a new session is created in the negotiated language.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		id, err := h.service.CreateSession(r.Context(), negotiateLanguage(r))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sessionID = id
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer h.service.Leave(r.Context(), sessionID)
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer goroutine; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, sessionID, inbound); err != nil {
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

type clientError string

func (e clientError) Error() string { return string(e) }

// dispatch applies one client command. Commands whose preconditions do not
// hold are ignored; the next state push shows the unchanged session.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, msg inboundMessage) error {
	ctx := r.Context()
	switch msg.Type {
	case "add":
		var p addPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return clientError("invalid add payload")
		}
		_, _, err := h.service.AddParticipant(ctx, sessionID, p.Name)
		return err
	case "remove":
		var p idPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return clientError("invalid remove payload")
		}
		_, err := h.service.RemoveParticipant(ctx, sessionID, p.ID)
		return err
	case "spin":
		_, err := h.service.Spin(ctx, sessionID)
		return err
	case "reveal":
		_, err := h.service.Reveal(ctx, sessionID)
		return err
	case "score":
		var p scorePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return clientError("invalid score payload")
		}
		_, err := h.service.Score(ctx, sessionID, p.Correct)
		return err
	case "dismiss":
		_, err := h.service.Dismiss(ctx, sessionID)
		return err
	case "adjust":
		var p adjustPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return clientError("invalid adjust payload")
		}
		_, err := h.service.AdjustScore(ctx, sessionID, p.ID, p.Delta)
		return err
	case "settings":
		var p settingsPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return clientError("invalid settings payload")
		}
		if p.Category != nil {
			if err := h.service.SetCategory(ctx, sessionID, *p.Category); err != nil {
				return err
			}
		}
		if p.Difficulty != nil {
			if err := h.service.SetDifficulty(ctx, sessionID, *p.Difficulty); err != nil {
				return err
			}
		}
		if p.Language != nil {
			if err := h.service.SetLanguage(ctx, sessionID, *p.Language); err != nil {
				return err
			}
		}
		return nil
	case "mute":
		_, err := h.service.ToggleMute(ctx, sessionID)
		return err
	default:
		return clientError("unsupported message type")
	}
}
