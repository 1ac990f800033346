package telephony

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/dialogue"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/kyc"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/storage"
)

// pageTimeout bounds how long a webhook waits for the session goroutine to
// produce the next TwiML page.
const pageTimeout = 15 * time.Second

// Gateway exposes the KYC dialogue over Twilio voice webhooks. Each call gets
// its own controller wired to a bridge; the handlers only ferry speech
// results in and TwiML pages out.
type Gateway struct {
	authToken string
	store     storage.Storage

	mu    sync.Mutex
	calls map[string]*activeCall
}

type activeCall struct {
	bridge *bridge
	cancel context.CancelFunc
}

func NewGateway(authToken string, store storage.Storage) *Gateway {
	return &Gateway{authToken: authToken, store: store, calls: make(map[string]*activeCall)}
}

// Register attaches the webhook routes; both are signature-checked.
func (g *Gateway) Register(e *echo.Echo) {
	auth := TwilioAuth(func() string { return g.authToken })
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/twilio/voice", g.voice, auth)
	e.POST(collectPath, g.collect, auth)
}

func (g *Gateway) voice(c echo.Context) error {
	params, ok := c.Get("twilioParams").(map[string]string)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	callSID := params["CallSid"]
	if callSID == "" {
		return c.String(http.StatusBadRequest, "CallSid missing")
	}
	log.Printf("KYC call from %s, CallSID: %s", params["From"], callSID)

	b := newBridge()
	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	if _, exists := g.calls[callSID]; exists {
		g.mu.Unlock()
		cancel()
		return c.String(http.StatusConflict, "call already in progress")
	}
	g.calls[callSID] = &activeCall{bridge: b, cancel: cancel}
	g.mu.Unlock()

	ctrl := dialogue.NewController(b, b)
	go func() {
		rec, completed := ctrl.RunSession(ctx)
		if completed {
			g.persist(callSID, rec)
		} else {
			log.Printf("call %s: session not completed; partial: name=%q phone=%q pan=%q",
				callSID, rec.Name, rec.Phone, rec.PAN)
		}
		b.finish()
	}()

	return g.nextPage(c, callSID, b)
}

func (g *Gateway) collect(c echo.Context) error {
	params, ok := c.Get("twilioParams").(map[string]string)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	callSID := params["CallSid"]

	g.mu.Lock()
	call := g.calls[callSID]
	g.mu.Unlock()
	if call == nil {
		page, err := hangupPage([]string{"This session has ended. Goodbye."})
		if err != nil {
			page = fallbackHangup
		}
		c.Response().Header().Set(echo.HeaderContentType, "application/xml")
		return c.String(http.StatusOK, page)
	}

	select {
	case call.bridge.speech <- params["SpeechResult"]:
	case <-time.After(pageTimeout):
		g.drop(callSID)
		return c.String(http.StatusInternalServerError, "session stalled")
	}
	return g.nextPage(c, callSID, call.bridge)
}

func (g *Gateway) nextPage(c echo.Context, callSID string, b *bridge) error {
	select {
	case page := <-b.pages:
		if b.done() {
			g.drop(callSID)
		}
		c.Response().Header().Set(echo.HeaderContentType, "application/xml")
		return c.String(http.StatusOK, page)
	case <-time.After(pageTimeout):
		g.drop(callSID)
		return c.String(http.StatusInternalServerError, "session stalled")
	}
}

func (g *Gateway) drop(callSID string) {
	g.mu.Lock()
	call := g.calls[callSID]
	delete(g.calls, callSID)
	g.mu.Unlock()
	if call != nil {
		call.cancel()
	}
}

// persist writes the completed record. A failed write is reported and does
// not undo session success.
func (g *Gateway) persist(callSID string, rec kyc.Record) {
	body, err := rec.JSON()
	if err != nil {
		log.Printf("call %s: marshal record: %v", callSID, err)
		return
	}
	key := fmt.Sprintf("kyc_session_%s.json", uuid.NewString())
	if err := g.store.Upload(key, "application/json", body); err != nil {
		log.Printf("call %s: failed to save record: %v", callSID, err)
		return
	}
	log.Printf("call %s: KYC data saved to %s", callSID, key)
}
