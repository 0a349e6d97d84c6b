package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// FakeUser is an account known to the FakeBackend
type FakeUser struct {
	Password string
	Email    string
	Phone    string
}

// FakeHistoryItem mirrors one server-side history row
type FakeHistoryItem struct {
	ID             string `json:"id"`
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	TargetLang     string `json:"targetLang"`
	Timestamp      string `json:"timestamp"`
}

// FakeBackend is an in-process stand-in for the translation service
type FakeBackend struct {
	Server *httptest.Server

	mu      sync.Mutex
	users   map[string]*FakeUser
	history map[string][]FakeHistoryItem
	calls   []string
	queries []string
	nextID  int

	// Failures maps a route name to the status code it should answer with.
	// Route names: login, signup, profile.get, profile.put, password,
	// delete, translate, history, clear.
	Failures map[string]int

	// Malformed maps a route name to a body that replaces the normal reply
	Malformed map[string]string

	// TranslateHook runs before a translate reply is written. Tests block in
	// it to control the order in which concurrent requests resolve.
	TranslateHook func(text, to string)
}

// NewFakeBackend starts a fake backend that is closed when the test ends
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		users:     make(map[string]*FakeUser),
		history:   make(map[string][]FakeHistoryItem),
		Failures:  make(map[string]int),
		Malformed: make(map[string]string),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", b.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/signup", b.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/user/{username}", b.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/auth/user/{username}", b.handleUpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/auth/user/{username}", b.handleDeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/auth/user/{username}/password", b.handlePassword).Methods(http.MethodPut)
	api.HandleFunc("/translate", b.handleTranslate).Methods(http.MethodGet)
	api.HandleFunc("/translate/history", b.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/translate/clear-history", b.handleClearHistory).Methods(http.MethodGet)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL returns the API base URL clients should use
func (b *FakeBackend) BaseURL() string {
	return b.Server.URL + "/api/"
}

// AddUser registers an account
func (b *FakeBackend) AddUser(username string, user FakeUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := user
	b.users[username] = &u
}

// User returns a copy of the account, if it exists
func (b *FakeBackend) User(username string) (FakeUser, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok {
		return FakeUser{}, false
	}
	return *u, true
}

// SetHistory replaces the user's stored history
func (b *FakeBackend) SetHistory(username string, items []FakeHistoryItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history[username] = append([]FakeHistoryItem(nil), items...)
}

// History returns the user's stored history
func (b *FakeBackend) History(username string) []FakeHistoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]FakeHistoryItem(nil), b.history[username]...)
}

// Fail makes route answer with status until cleared with Fail(route, 0)
func (b *FakeBackend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.Failures, route)
		return
	}
	b.Failures[route] = status
}

// Calls returns "METHOD /path" for every request received
func (b *FakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Queries returns the raw query string of every request received
func (b *FakeBackend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

// FakeTranslation is the translation the backend produces for text
func FakeTranslation(text, to string) string {
	return fmt.Sprintf("[%s] %s", strings.ToLower(to), text)
}

// FakeAudio is the base64 audio the backend attaches for text
func FakeAudio(text string) string {
	return base64.StdEncoding.EncodeToString([]byte("ID3 audio for " + text))
}

// record logs the call and reports a configured failure
func (b *FakeBackend) record(w http.ResponseWriter, r *http.Request, route string) bool {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.queries = append(b.queries, r.URL.RawQuery)
	status := b.Failures[route]
	body, malformed := b.Malformed[route]
	b.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return true
	}
	if malformed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "login") {
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	u, ok := b.User(creds.Username)
	if !ok || u.Password != creds.Password {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Invalid username or password"))
		return
	}
	w.Write([]byte("Login successful"))
}

func (b *FakeBackend) handleSignup(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "signup") {
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if _, exists := b.User(req.Username); exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Username already exists"})
		return
	}
	b.AddUser(req.Username, FakeUser{Password: req.Password, Email: req.Email, Phone: req.Phone})
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (b *FakeBackend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "profile.get") {
		return
	}
	u, ok := b.User(mux.Vars(r)["username"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	resp := map[string]interface{}{"username": mux.Vars(r)["username"]}
	if u.Email != "" {
		resp["email"] = u.Email
	} else {
		resp["email"] = nil
	}
	if u.Phone != "" {
		resp["phone"] = u.Phone
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *FakeBackend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "profile.put") {
		return
	}
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	username := mux.Vars(r)["username"]
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	if email, ok := fields["email"]; ok {
		u.Email = email
	}
	if phone, ok := fields["phone"]; ok {
		u.Phone = phone
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (b *FakeBackend) handlePassword(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "password") {
		return
	}
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	username := mux.Vars(r)["username"]
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok || u.Password != req.OldPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Current password is incorrect"})
		return
	}
	u.Password = req.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (b *FakeBackend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "delete") {
		return
	}
	username := mux.Vars(r)["username"]
	password := r.URL.Query().Get("password")

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok || u.Password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
		return
	}
	delete(b.users, username)
	delete(b.history, username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

func (b *FakeBackend) handleTranslate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text, to := q.Get("text"), q.Get("to")

	if b.record(w, r, "translate") {
		return
	}
	if b.TranslateHook != nil {
		b.TranslateHook(text, to)
	}
	if text == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text and to are required"})
		return
	}

	translation := FakeTranslation(text, to)
	resp := map[string]string{"translation": translation}
	if q.Get("includeAudio") == "true" {
		resp["audio"] = FakeAudio(translation)
	}

	if username := q.Get("username"); username != "" {
		b.mu.Lock()
		b.nextID++
		b.history[username] = append(b.history[username], FakeHistoryItem{
			ID:             fmt.Sprintf("%d", b.nextID),
			OriginalText:   text,
			TranslatedText: translation,
			TargetLang:     to,
			Timestamp:      time.Now().UTC().Format("2006-01-02 15:04:05.000"),
		})
		b.mu.Unlock()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (b *FakeBackend) handleHistory(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "history") {
		return
	}
	items := b.History(r.URL.Query().Get("username"))
	if items == nil {
		items = []FakeHistoryItem{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": items})
}

func (b *FakeBackend) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if b.record(w, r, "clear") {
		return
	}
	b.mu.Lock()
	delete(b.history, r.URL.Query().Get("username"))
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}
