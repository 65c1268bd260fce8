package api

import (
	"net/http"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutSubscription_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/subscriptions", env.studentToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid request"}`, w.Body.String())
}

func TestSubscriptions_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	endpoint := "https://push.example/s1"

	w := env.do(t, http.MethodPut, "/api/subscriptions", env.studentToken,
		map[string]any{"endpoint": endpoint, "p256dh": "key", "auth": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	sub := env.store.subs[endpoint]
	require.NotNil(t, sub)
	assert.Equal(t, env.student, sub.UserID)

	w = env.do(t, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, env.studentToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user cannot see or remove it.
	w = env.do(t, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, env.teacherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, "/api/subscriptions", env.teacherToken, map[string]any{"endpoint": endpoint})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/subscriptions", env.studentToken, map[string]any{"endpoint": endpoint})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, env.store.subs, endpoint)
}

func TestGetSubscription_RequiresEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/subscriptions", env.studentToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.handler.webpush = &webpush.Options{VAPIDPublicKey: "BPub"}
	w = env.do(t, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"BPub"}`, w.Body.String())
}
