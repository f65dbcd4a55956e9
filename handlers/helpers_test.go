package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"ballotbox/auth"
	"ballotbox/middleware"
	"ballotbox/models"
	"ballotbox/repositories"
	"ballotbox/voting"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// testServer wires the handlers over the in-memory store, mirroring the
// route table in routes.SetupRoutes.
type testServer struct {
	app     *fiber.App
	store   *repositories.InMemoryStore
	tokens  *auth.TokenService
	userSeq int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repositories.NewInMemoryStore()
	tokens := auth.NewTokenService("handler-test-secret", nil)
	votingService := voting.NewService(store.Users(), store.Candidates(), store)

	users := NewUserHandler(store.Users(), tokens)
	candidates := NewCandidateHandler(store.Candidates(), votingService)

	app := fiber.New()
	authRequired := middleware.JwtAuthMiddleware(tokens)

	app.Post("/user/signup", users.Signup)
	app.Post("/user/login", users.Login)
	app.Get("/user/profile", authRequired, users.Profile)
	app.Put("/user/profile/password", authRequired, users.ChangePassword)

	app.Get("/candidates", candidates.List)
	app.Post("/candidates", authRequired, candidates.Create)
	app.Get("/candidates/vote/count", candidates.VoteCount)
	app.Post("/candidates/vote/:candidateID", authRequired, candidates.CastVote)
	app.Put("/candidates/:candidateID", authRequired, candidates.Update)
	app.Delete("/candidates/:candidateID", authRequired, candidates.Delete)

	return &testServer{app: app, store: store, tokens: tokens}
}

// request sends a JSON request, optionally with a bearer token, and
// decodes the JSON response body into a generic map.
func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		// Tally responses are arrays; wrap them so callers get a map.
		if raw[0] == '[' {
			var list []interface{}
			if err := json.Unmarshal(raw, &list); err != nil {
				t.Fatalf("decode response %q: %v", raw, err)
			}
			decoded = map[string]interface{}{"list": list}
		} else if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}

	return resp.StatusCode, decoded
}

// seedUser creates a user directly in the store with a bcrypt-hashed
// password and returns its id and a valid token.
func (s *testServer) seedUser(t *testing.T, role models.Role, password string) (uint, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	s.userSeq++
	user := &models.User{
		Name:         "Seed User",
		NationalID:   fmt.Sprintf("%012d", s.userSeq),
		Role:         role,
		PasswordHash: string(hashed),
	}
	if err := s.store.Users().Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user.ID, token
}

// seedCandidate creates a candidate directly in the store.
func (s *testServer) seedCandidate(t *testing.T, name, party string) uint {
	t.Helper()
	candidate := &models.Candidate{Name: name, Party: party}
	if err := s.store.Candidates().Create(candidate); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return candidate.ID
}

func errorMessage(body map[string]interface{}) string {
	msg, _ := body["error"].(string)
	return msg
}
