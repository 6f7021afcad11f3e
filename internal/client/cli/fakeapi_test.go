package cli

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// fakeAPI is an in-memory stand-in for the calculator REST API.
type fakeAPI struct {
	mu        sync.Mutex
	users     map[string]fakeUser // by email
	tokens    map[string]string   // token -> email
	history   []map[string]any
	healthy   bool
	disabled  bool
	listFails bool
	aiTokens  int
}

type fakeUser struct {
	ID, Username, Email, Password string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users:   map[string]fakeUser{},
		tokens:  map[string]string{},
		healthy: true,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (f *fakeAPI) userJSON(u fakeUser) map[string]any {
	return map[string]any{
		"id": u.ID, "username": u.Username, "email": u.Email,
		"is_active": true, "is_premium": false, "created_at": "2024-05-01T10:00:00",
	}
}

// revokeAll invalidates every issued token, as if the server's secret rotated.
func (f *fakeAPI) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]string{}
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		_, ok := f.tokens[token]
		disabled := f.disabled
		f.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if disabled {
			detail(w, http.StatusForbidden, "account disabled")
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) addHistory(expr, result, typ string) {
	f.history = append([]map[string]any{{
		"id":               uuid.NewString(),
		"expression":       expr,
		"result":           result,
		"calculation_type": typ,
		"created_at":       time.Now().UTC().Format("2006-01-02T15:04:05"),
	}}, f.history...)
}

func (f *fakeAPI) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := f.healthy
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Username, Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.users[req.Email]; ok {
				detail(w, http.StatusBadRequest, "Email already registered")
				return
			}
			u := fakeUser{ID: uuid.NewString(), Username: req.Username, Email: req.Email, Password: req.Password}
			f.users[req.Email] = u
			writeJSON(w, http.StatusCreated, f.userJSON(u))
		})

		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			defer f.mu.Unlock()
			u, ok := f.users[req.Email]
			if !ok || u.Password != req.Password {
				detail(w, http.StatusUnauthorized, "Incorrect email or password")
				return
			}
			token := uuid.NewString()
			f.tokens[token] = u.Email
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": token, "token_type": "bearer", "expires_in": 1800, "user": f.userJSON(u),
			})
		})

		r.Get("/auth/me", f.authed(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			f.mu.Lock()
			defer f.mu.Unlock()
			writeJSON(w, http.StatusOK, f.userJSON(f.users[f.tokens[token]]))
		}))

		r.Post("/calculate", f.authed(func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Expression string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			a, b, ok := strings.Cut(strings.ReplaceAll(req.Expression, " ", ""), "+")
			x, errA := strconv.ParseFloat(a, 64)
			y, errB := strconv.ParseFloat(b, 64)
			if !ok || errA != nil || errB != nil {
				detail(w, http.StatusBadRequest, "Invalid expression")
				return
			}
			f.mu.Lock()
			f.addHistory(req.Expression, strconv.FormatFloat(x+y, 'f', -1, 64), "basic")
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{"expression": req.Expression, "result": x + y, "calculation_id": uuid.NewString()})
		}))

		r.Post("/calculate/validate", f.authed(func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Expression string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			if strings.HasSuffix(req.Expression, "+") {
				writeJSON(w, http.StatusOK, map[string]any{"valid": false, "message": "Unexpected end of expression"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"valid": true, "message": "Expression is valid"})
		}))

		r.Post("/calculate/ai", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.aiTokens += 40
			f.addHistory("12**2", "144", "ai")
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{
				"query": "q", "understood": "12**2", "result": 144, "calculation_id": uuid.NewString(), "tokens_used": 40,
			})
		}))

		r.Get("/history", f.authed(func(w http.ResponseWriter, r *http.Request) {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.listFails {
				detail(w, http.StatusServiceUnavailable, "database is down")
				return
			}
			total := len(f.history)
			items := []map[string]any{}
			for i := (page - 1) * size; i < total && i < page*size; i++ {
				items = append(items, f.history[i])
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"items": items, "total": total, "page": page, "page_size": size,
				"total_pages": (total + size - 1) / size,
			})
		}))

		r.Delete("/history/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, h := range f.history {
				if h["id"] == id {
					f.history = append(f.history[:i], f.history[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			detail(w, http.StatusNotFound, "Calculation not found")
		}))

		r.Delete("/history", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			n := len(f.history)
			f.history = nil
			writeJSON(w, http.StatusOK, map[string]any{"message": "History cleared", "deleted_count": n})
		}))

		r.Get("/history/stats/ai-usage", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			queries := 0
			for _, h := range f.history {
				if h["calculation_type"] == "ai" {
					queries++
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{"total_queries": queries, "total_tokens": f.aiTokens})
		}))
	})

	return r
}
