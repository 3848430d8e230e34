// Package session хранит bearer-токен внешнего API в подписанном cookie
// и предоставляет его обработчикам через контекст запроса.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const tokenKey contextKey = "apiToken"

const (
	tokenCookieName = "api_token"
	tokenCookieTTL  = 30 * 24 * time.Hour
)

// ErrNoToken возвращается, когда в сессии нет сохранённого токена.
// Обработчики обязаны проверять эту ошибку до отправки авторизованных запросов.
var ErrNoToken = errors.New("api token not found in session")

// Manager выполняет подпись и проверку cookie с токеном внешнего API.
type Manager struct {
	secretKey []byte
}

// NewManager создаёт новый экземпляр Manager с указанным секретным ключом.
func NewManager(secret string) *Manager {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &Manager{
		secretKey: key,
	}
}

// Middleware извлекает токен из cookie и кладёт его в контекст запроса.
// Отсутствующий или испорченный cookie не прерывает запрос: неавторизованные
// страницы работают без токена, а авторизованные получают ErrNoToken.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := m.parseCookie(cookie.Value)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetToken устанавливает подписанный cookie с указанным токеном.
func (m *Manager) SetToken(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    m.signToken(token),
		Path:     "/",
		Expires:  time.Now().Add(tokenCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

// Clear удаляет cookie с токеном.
func (m *Manager) Clear(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (m *Manager) signToken(token string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(token))
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(encoded))
	return encoded + "." + hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) parseCookie(cookieValue string) (string, bool) {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return "", false
	}

	encoded := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(encoded))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	token, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(token) == 0 {
		return "", false
	}

	return string(token), true
}

// TokenFromContext извлекает токен внешнего API из контекста запроса.
func TokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenKey).(string)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
