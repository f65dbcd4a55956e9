package routes

import (
	"ballotbox/auth"
	"ballotbox/handlers"
	"ballotbox/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the user and candidate endpoints. Protected routes
// go through the JWT middleware.
func SetupRoutes(app *fiber.App, tokens *auth.TokenService, users *handlers.UserHandler, candidates *handlers.CandidateHandler) {
	authRequired := middleware.JwtAuthMiddleware(tokens)

	user := app.Group("/user")
	user.Post("/signup", users.Signup)
	user.Post("/login", users.Login)
	user.Get("/profile", authRequired, users.Profile)
	user.Put("/profile/password", authRequired, users.ChangePassword)

	candidate := app.Group("/candidates")
	candidate.Get("/", candidates.List)
	candidate.Post("/", authRequired, candidates.Create)
	candidate.Get("/vote/count", candidates.VoteCount)
	candidate.Post("/vote/:candidateID", authRequired, candidates.CastVote)
	candidate.Put("/:candidateID", authRequired, candidates.Update)
	candidate.Delete("/:candidateID", authRequired, candidates.Delete)
}
