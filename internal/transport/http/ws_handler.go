package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dailydraft-service/internal/app"
	"dailydraft-service/internal/domain"
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

type guessPayload struct {
	QuestionIndex int    `json:"questionIndex"`
	PlayerID      string `json:"playerId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type roundPayload struct {
	SessionID string           `json:"sessionId"`
	RoundID   string           `json:"roundId"`
	Mode      domain.RoundMode `json:"mode"`
	Date      string           `json:"date,omitempty"`
	Questions []questionView   `json:"questions"`
}

// questionView is the client-facing question: same shape as domain.Question
// minus the answer.
type questionView struct {
	Index      int                 `json:"index"`
	Slot       domain.Slot         `json:"slot"`
	Season     int                 `json:"season,omitempty"`
	Stat       domain.StatCategory `json:"stat,omitempty"`
	Prompt     string              `json:"prompt"`
	Candidates []domain.Candidate  `json:"candidates,omitempty"`
	DataIssue  bool                `json:"dataIssue,omitempty"`
}

type dailyStatusPayload struct {
	SessionID string `json:"sessionId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"maxScore"`
	ShareText string `json:"shareText,omitempty"`
}

type roundCompletePayload struct {
	TotalScore int    `json:"totalScore"`
	MaxScore   int    `json:"maxScore"`
	ShareText  string `json:"shareText,omitempty"`
}

// ServeWS upgrades the request and plays one round over the socket: the
// server sends the round, the client answers question by question, and the
// server closes out with the final score. Rounds are single-player and
// strictly sequential, so all writes happen on this goroutine.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	mode := domain.RoundMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = domain.ModeDaily
	}
	if mode != domain.ModeDaily && mode != domain.ModePractice {
		http.Error(w, "mode must be daily or practice", http.StatusBadRequest)
		return
	}
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	if mode == domain.ModeDaily {
		state, err := h.service.DailyStatus(ctx, sessionID)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		if state.Completed {
			// Replay the stored result instead of starting a new round.
			_ = conn.WriteJSON(outboundMessage[dailyStatusPayload]{Type: "dailyStatus", Payload: dailyStatusPayload{
				SessionID: sessionID,
				Date:      state.Date,
				Completed: true,
				Score:     state.Score,
				MaxScore:  state.MaxScore,
				ShareText: h.service.ShareText(state),
			}})
			return
		}
	}

	var round *domain.Round
	if mode == domain.ModeDaily {
		round, err = h.service.StartDaily(ctx, sessionID)
	} else {
		round, err = h.service.StartPractice(ctx)
	}
	if err != nil {
		h.sendError(conn, err)
		return
	}

	views := make([]questionView, len(round.Questions))
	for i, q := range round.Questions {
		views[i] = questionView{
			Index:      i,
			Slot:       q.Slot,
			Season:     q.Season,
			Stat:       q.Stat,
			Prompt:     q.Prompt,
			Candidates: q.Candidates,
			DataIssue:  q.DataIssue,
		}
	}
	if err := conn.WriteJSON(outboundMessage[roundPayload]{Type: "round", Payload: roundPayload{
		SessionID: sessionID,
		RoundID:   round.ID,
		Mode:      round.Mode,
		Date:      round.Date,
		Questions: views,
	}}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for len(round.Results) < len(round.Questions) {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if inbound.Type != "guess" {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
			continue
		}

		var payload guessPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid guess payload"}})
			continue
		}

		result, err := h.service.SubmitGuess(ctx, round, payload.QuestionIndex, payload.PlayerID)
		if err != nil {
			h.sendError(conn, err)
			if domain.Retryable(err) {
				continue
			}
			return
		}
		if err := conn.WriteJSON(outboundMessage[domain.GuessResult]{Type: "guessResult", Payload: result}); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}

	complete := roundCompletePayload{
		TotalScore: app.Aggregate(round.Results),
		MaxScore:   app.MaxRoundScore,
	}
	if round.Mode == domain.ModeDaily {
		state, err := h.service.CompleteDaily(ctx, sessionID, round)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		complete.TotalScore = state.Score
		complete.ShareText = h.service.ShareText(state)
	}
	if err := conn.WriteJSON(outboundMessage[roundCompletePayload]{Type: "roundComplete", Payload: complete}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WSHandler) sendError(conn *websocket.Conn, err error) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{
		Message:   err.Error(),
		Retryable: domain.Retryable(err),
	}})
}
