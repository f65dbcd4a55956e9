package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ballotbox/middleware"
	"ballotbox/models"
	"ballotbox/repositories"
	"ballotbox/voting"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// CandidateHandler handles candidate listing, admin mutations and vote
// casting.
type CandidateHandler struct {
	Candidates repositories.CandidateStore
	Voting     *voting.Service
}

func NewCandidateHandler(candidates repositories.CandidateStore, votingService *voting.Service) *CandidateHandler {
	return &CandidateHandler{Candidates: candidates, Voting: votingService}
}

type candidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

// List handles GET /candidates. Public; returns name and party only.
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	list, err := h.Candidates.List()
	if err != nil {
		log.WithError(err).Error("candidate listing failed")
		return internalError(c)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"candidates": list})
}

// Create handles POST /candidates. Admin only.
func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	if !h.requireAdmin(c) {
		return forbidden(c)
	}

	var req candidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}
	if req.Name == "" || req.Party == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Name and party are required"})
	}

	candidate := models.Candidate{Name: req.Name, Party: req.Party}
	if err := h.Candidates.Create(&candidate); err != nil {
		log.WithError(err).Error("candidate creation failed")
		return internalError(c)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"candidate": candidate})
}

// Update handles PUT /candidates/:candidateID. Admin only.
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	if !h.requireAdmin(c) {
		return forbidden(c)
	}

	id, err := candidateID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid candidate id"})
	}

	var req candidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}
	if req.Name == "" || req.Party == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Name and party are required"})
	}

	candidate, err := h.Candidates.Update(id, req.Name, req.Party)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
		}
		log.WithError(err).Error("candidate update failed")
		return internalError(c)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"candidate": candidate})
}

// Delete handles DELETE /candidates/:candidateID. Admin only.
func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	if !h.requireAdmin(c) {
		return forbidden(c)
	}

	id, err := candidateID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid candidate id"})
	}

	if err := h.Candidates.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
		}
		log.WithError(err).Error("candidate deletion failed")
		return internalError(c)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Candidate deleted"})
}

// VoteCount handles GET /candidates/vote/count. Public; one
// {party, count} entry per candidate, highest count first.
func (h *CandidateHandler) VoteCount(c *fiber.Ctx) error {
	tally, err := h.Candidates.TallyByVotes()
	if err != nil {
		log.WithError(err).Error("vote tally failed")
		return internalError(c)
	}
	return c.Status(http.StatusOK).JSON(tally)
}

// CastVote handles POST /candidates/vote/:candidateID.
func (h *CandidateHandler) CastVote(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := candidateID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid candidate id"})
	}

	switch err := h.Voting.CastVote(userID, id); {
	case err == nil:
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Vote recorded successfully"})
	case errors.Is(err, repositories.ErrCandidateNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	case errors.Is(err, repositories.ErrUserNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, voting.ErrAdminCannotVote):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "Admin is not allowed to vote"})
	case errors.Is(err, repositories.ErrAlreadyVoted):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "You have already voted"})
	default:
		log.WithError(err).WithField("user_id", userID).Error("vote recording failed")
		return internalError(c)
	}
}

func (h *CandidateHandler) requireAdmin(c *fiber.Ctx) bool {
	userID, ok := middleware.UserID(c)
	if !ok {
		return false
	}
	return h.Voting.IsAdmin(userID)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "User does not have admin role"})
}

func candidateID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("candidateID"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
