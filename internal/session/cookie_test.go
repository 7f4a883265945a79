package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSignVerifyRoundTrip(t *testing.T) {
	signed := SignValue("hello", testSecret)

	value, ok := VerifyValue(signed, testSecret)
	require.True(t, ok)
	assert.Equal(t, "hello", value)
}

func TestVerifyValue_Tampered(t *testing.T) {
	signed := SignValue("hello", testSecret)

	_, ok := VerifyValue("hacked"+signed[5:], testSecret)
	assert.False(t, ok)
}

func TestVerifyValue_WrongSecret(t *testing.T) {
	signed := SignValue("hello", "other-secret")

	_, ok := VerifyValue(signed, testSecret)
	assert.False(t, ok)
}

func TestVerifyValue_NoSignature(t *testing.T) {
	_, ok := VerifyValue("plain-value", testSecret)
	assert.False(t, ok)
}

func TestSessionCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sid123", time.Now().Add(time.Hour), testSecret, CookieOptions{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	id, ok := ReadCookie(r, testSecret)
	require.True(t, ok)
	assert.Equal(t, "sid123", id)
}

func TestReadCookie_Unsigned(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sid123"})

	_, ok := ReadCookie(r, testSecret)
	assert.False(t, ok)
}

func TestTokenCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetTokenCookie(w, "sample123", time.Hour, testSecret, CookieOptions{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	token, ok := ReadTokenCookie(r, testSecret)
	require.True(t, ok)
	assert.Equal(t, "sample123", token)
}

func TestCookieDefaults(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sid123", time.Now().Add(time.Hour), testSecret, CookieOptions{})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
}
