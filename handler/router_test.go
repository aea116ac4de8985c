package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"maplenotes/repository"
	"maplenotes/usecase"

	"github.com/gin-gonic/gin"
)

// newTestRouter wires the full HTTP surface over a fresh in-memory
// store, mirroring the route table the server builds at startup.
func newTestRouter() (*gin.Engine, repository.Store) {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	userService := &usecase.UserService{Store: store}
	notesService := &usecase.NotesService{Store: store}

	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		HealthHandler(c, store)
	})
	router.POST("/auth/signup", func(c *gin.Context) {
		SignupHandler(c, userService)
	})
	router.POST("/auth/login", func(c *gin.Context) {
		LoginHandler(c, userService)
	})
	router.GET("/notes/:userId", func(c *gin.Context) {
		GetUserNotesHandler(c, notesService)
	})
	router.POST("/notes", func(c *gin.Context) {
		CreateNoteHandler(c, notesService)
	})
	router.DELETE("/notes/:noteId", func(c *gin.Context) {
		DeleteNoteHandler(c, notesService)
	})

	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func signupUser(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		UserID string `json:"userId"`
	}
	decodeBody(t, w, &resp)
	return resp.UserID
}
