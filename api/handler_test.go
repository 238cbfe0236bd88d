package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
	"github.com/tanpawarit/Chative-Order-Router/api"
	"github.com/tanpawarit/Chative-Order-Router/pkg/policy"
	"github.com/tanpawarit/Chative-Order-Router/pkg/telegram"
)

type routedMessage struct {
	chatID string
	text   string
}

type fakeRouter struct {
	mu     sync.Mutex
	result contractx.RouteResult
	err    error
	calls  []routedMessage
}

func (f *fakeRouter) RouteMessage(ctx context.Context, chatID string, text string) (contractx.RouteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, routedMessage{chatID: chatID, text: text})
	return f.result, f.err
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return f.err
}

const textUpdate = `{"update_id":1,"message":{"message_id":10,"chat":{"id":555,"type":"private"},"text":"refund order number 345"}}`

func postUpdate(t *testing.T, e *echo.Echo, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newServer(router api.Router, history statex.Store, sender api.Sender, pol api.ChatPolicy, cfg api.Config) *echo.Echo {
	return api.NewServer(api.NewHandler(router, history, sender, pol, cfg))
}

func TestHealth(t *testing.T) {
	e := newServer(&fakeRouter{}, statex.NewMemoryStore(), &fakeSender{}, nil, api.Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.StatusRunning, rec.Body.String())
}

func TestTelegramWebhook(t *testing.T) {
	t.Run("Routes And Replies", func(t *testing.T) {
		router := &fakeRouter{result: contractx.RouteResult{
			Category: contractx.CategoryRefund,
			Response: "This would be handled by the Refund Agent",
		}}
		sender := &fakeSender{}
		e := newServer(router, statex.NewMemoryStore(), sender, nil, api.Config{})

		for _, path := range []string{"/", "/telegram/webhook"} {
			rec := postUpdate(t, e, path, textUpdate, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, api.StatusProcessed, rec.Body.String())
		}

		require.Len(t, router.calls, 2)
		assert.Equal(t, routedMessage{chatID: "555", text: "refund order number 345"}, router.calls[0])
		require.Len(t, sender.sent, 2)
		assert.Equal(t, sentMessage{chatID: 555, text: "This would be handled by the Refund Agent"}, sender.sent[0])
	})

	t.Run("Routing Error Sends Apology", func(t *testing.T) {
		router := &fakeRouter{err: errors.New("store down")}
		sender := &fakeSender{}
		e := newServer(router, statex.NewMemoryStore(), sender, nil, api.Config{})

		rec := postUpdate(t, e, "/telegram/webhook", textUpdate, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, api.ErrorReply, sender.sent[0].text)
	})

	t.Run("Send Failure Still Acknowledged", func(t *testing.T) {
		router := &fakeRouter{result: contractx.RouteResult{Response: "ok"}}
		sender := &fakeSender{err: errors.New("telegram 502")}
		e := newServer(router, statex.NewMemoryStore(), sender, nil, api.Config{})

		rec := postUpdate(t, e, "/", textUpdate, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Ignores Updates Without Text", func(t *testing.T) {
		router := &fakeRouter{}
		sender := &fakeSender{}
		e := newServer(router, statex.NewMemoryStore(), sender, nil, api.Config{})

		for _, body := range []string{
			`{"update_id":2}`,
			`{"update_id":3,"message":{"message_id":1,"chat":{"id":1,"type":"private"}}}`,
			`{"update_id":4,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":"   "}}`,
		} {
			rec := postUpdate(t, e, "/", body, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Empty(t, router.calls)
		assert.Empty(t, sender.sent)
	})

	t.Run("Rejects Bad Secret", func(t *testing.T) {
		router := &fakeRouter{}
		e := newServer(router, statex.NewMemoryStore(), &fakeSender{}, nil, api.Config{WebhookSecret: "s3cret"})

		rec := postUpdate(t, e, "/", textUpdate, map[string]string{telegram.SecretHeader: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, router.calls)

		rec = postUpdate(t, e, "/", textUpdate, map[string]string{telegram.SecretHeader: "s3cret"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, router.calls, 1)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		e := newServer(&fakeRouter{}, statex.NewMemoryStore(), &fakeSender{}, nil, api.Config{})
		rec := postUpdate(t, e, "/", `{"update_id":`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Policy Blocks Chat", func(t *testing.T) {
		engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy, []string{"999"})
		require.NoError(t, err)

		router := &fakeRouter{}
		sender := &fakeSender{}
		e := newServer(router, statex.NewMemoryStore(), sender, engine, api.Config{})

		rec := postUpdate(t, e, "/", textUpdate, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, router.calls)
		assert.Empty(t, sender.sent)
	})
}

func TestGetChatMessages(t *testing.T) {
	ctx := context.Background()
	store := statex.NewMemoryStore()
	for _, text := range []string{"one", "two", "three"} {
		_, err := store.Append(ctx, "42", contractx.RoleUser, text, nil)
		require.NoError(t, err)
	}
	e := newServer(&fakeRouter{}, store, &fakeSender{}, nil, api.Config{})

	get := func(target string) (int, []contractx.ConversationMessage) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var resp struct {
			ChatID   string                          `json:"chat_id"`
			Messages []contractx.ConversationMessage `json:"messages"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return rec.Code, resp.Messages
	}

	code, msgs := get("/v1/chats/42/messages")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)

	code, msgs = get("/v1/chats/42/messages?limit=2")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Content)
	assert.Equal(t, "three", msgs[1].Content)

	code, msgs = get("/v1/chats/unknown/messages")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, msgs)
}
