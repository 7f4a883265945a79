package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// contextKey is the gin context key under which the request session is
// stored. Exactly one session is attached per request.
const contextKey = "session"

// MiddlewareOptions configures the session middleware.
type MiddlewareOptions struct {
	Secret string
	TTL    time.Duration
	Cookie CookieOptions
}

// FromContext returns the session attached by Middleware, or nil when
// the middleware did not run.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// cookieWriter defers the session cookie until the first byte of the
// response goes out. Whether a cookie is due at all is only known once
// the handler chain has had its chance to touch the session, and the
// header must be written before the body starts.
type cookieWriter struct {
	gin.ResponseWriter
	issue  func()
	issued bool
}

func (w *cookieWriter) WriteHeader(code int) {
	w.issueCookie()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.issueCookie()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) WriteString(s string) (int, error) {
	w.issueCookie()
	return w.ResponseWriter.WriteString(s)
}

func (w *cookieWriter) issueCookie() {
	if w.issued {
		return
	}
	w.issued = true
	w.issue()
}

// Middleware resolves the session for each request: a valid signed
// cookie loads the stored payload, anything else starts a fresh
// session. The cookie goes out with a refreshed expiry just before the
// response body starts; after the handler chain mutations are
// persisted. New sessions that were never written to get neither a
// cookie nor a store entry.
//
// If the store cannot be reached the request is aborted before the
// handler chain runs; nothing downstream may treat it as authenticated.
func Middleware(store Store, log *zap.SugaredLogger, opts MiddlewareOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session

		if id, ok := ReadCookie(c.Request, opts.Secret); ok {
			loaded, err := store.Get(c.Request.Context(), id)
			if err != nil {
				log.Errorw("session store unreachable", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
				return
			}
			sess = loaded
		}

		if sess == nil {
			id, err := GenerateID()
			if err != nil {
				log.Errorw("session id generation failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
				return
			}
			sess = New(id, opts.TTL)
		}

		c.Set(contextKey, sess)

		w := &cookieWriter{ResponseWriter: c.Writer}
		w.issue = func() {
			if sess.IsNew() && !sess.Dirty() {
				return
			}
			sess.Touch(opts.TTL)
			SetCookie(w.ResponseWriter, sess.ID, sess.ExpiresAt, opts.Secret, opts.Cookie)
		}
		c.Writer = w

		c.Next()

		// Handlers that answered with a bare status never wrote a body;
		// the header is still open, get the cookie in before gin
		// flushes it.
		w.issueCookie()

		if sess.Dirty() {
			if err := store.Save(c.Request.Context(), sess); err != nil {
				// Response is already on its way out, only log.
				log.Errorw("session save failed", "session_id", sess.ID, "error", err)
			}
		}
	}
}
