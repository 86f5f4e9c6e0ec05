package webhook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/idempotency"
	"github.com/fvalenzuela1/botarb/internal/webhook"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProcessor struct {
	updates []telebot.Update
	err     error
}

func (f *fakeProcessor) Process(_ context.Context, upd telebot.Update) error {
	f.updates = append(f.updates, upd)
	return f.err
}

type fakeSetter struct {
	url string
	err error
}

func (f *fakeSetter) SetWebhook(_ context.Context, url string) error {
	f.url = url
	return f.err
}

func newTestServer(t *testing.T, processor *fakeProcessor, setter *fakeSetter, webhookURL string) *httptest.Server {
	t.Helper()

	guard := idempotency.NewGuard(time.Minute, testLogger())
	srv := httptest.NewServer(webhook.NewServer(processor, setter, guard, webhookURL, testLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postUpdate(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandleUpdate(t *testing.T) {
	processor := &fakeProcessor{}
	srv := newTestServer(t, processor, &fakeSetter{}, "")

	body := `{"update_id":1,"message":{"from":{"id":7},"text":"100 0.54 0.23"}}`
	resp := postUpdate(t, srv.URL+"/", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "OK", string(payload))

	require.Len(t, processor.updates, 1)
	require.Equal(t, 1, processor.updates[0].ID)
	require.Equal(t, "100 0.54 0.23", processor.updates[0].Message.Text)
}

func TestHandleUpdate_MalformedBodyIsAcknowledged(t *testing.T) {
	processor := &fakeProcessor{}
	srv := newTestServer(t, processor, &fakeSetter{}, "")

	resp := postUpdate(t, srv.URL+"/", `{"update_id": not-json`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, processor.updates)
}

func TestHandleUpdate_DuplicateDeliverySkipped(t *testing.T) {
	processor := &fakeProcessor{}
	srv := newTestServer(t, processor, &fakeSetter{}, "")

	body := `{"update_id":42,"message":{"from":{"id":7},"text":"hola"}}`
	require.Equal(t, http.StatusOK, postUpdate(t, srv.URL+"/", body).StatusCode)
	require.Equal(t, http.StatusOK, postUpdate(t, srv.URL+"/", body).StatusCode)

	require.Len(t, processor.updates, 1)
}

func TestHandleUpdate_ProcessorErrorStillAcknowledged(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("boom")}
	srv := newTestServer(t, processor, &fakeSetter{}, "")

	body := `{"update_id":1,"message":{"from":{"id":7},"text":"hola"}}`
	resp := postUpdate(t, srv.URL+"/", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, processor.updates, 1)
}

func TestSetWebhook(t *testing.T) {
	setter := &fakeSetter{}
	srv := newTestServer(t, &fakeProcessor{}, setter, "https://bot.example.com/")

	resp, err := http.Get(srv.URL + "/setwebhook")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "Webhook set", string(payload))
	require.Equal(t, "https://bot.example.com/", setter.url)
}

func TestSetWebhook_PlatformFailure(t *testing.T) {
	setter := &fakeSetter{err: errors.New("api down")}
	srv := newTestServer(t, &fakeProcessor{}, setter, "https://bot.example.com/")

	resp, err := http.Get(srv.URL + "/setwebhook")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSetWebhook_Unconfigured(t *testing.T) {
	srv := newTestServer(t, &fakeProcessor{}, &fakeSetter{}, "")

	resp, err := http.Get(srv.URL + "/setwebhook")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeProcessor{}, &fakeSetter{}, "")

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(payload))
}
