package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/types"
)

type ReviewLocationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string `json:"notes"`
}

type ReviewVerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
	Notes  string `json:"notes"`
}

// PendingVerification is a user's queued documents grouped for the review UI.
type PendingVerification struct {
	UserId    string                       `json:"userId"`
	Email     string                       `json:"email"`
	FirstName string                       `json:"firstName,omitempty"`
	LastName  string                       `json:"lastName,omitempty"`
	Documents []types.VerificationDocument `json:"documents"`
}

func (s *SportMateApp) adminLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.db.GetLocations(database.LocationFilters{
		Status:       r.URL.Query().Get("status"),
		LocationType: r.URL.Query().Get("type"),
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(locations, func(l database.Location, _ int) types.Location {
		return toApiLocation(l)
	}))
}

func (s *SportMateApp) reviewLocation(w http.ResponseWriter, r *http.Request) {
	adminId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	locationId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req ReviewLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	location, err := s.db.ReviewLocation(locationId, req.Status, req.Notes, adminId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, toApiLocation(location))
}

func (s *SportMateApp) pendingVerificationDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.db.GetPendingVerificationDocuments()
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	byUser := lo.GroupBy(docs, func(d database.PendingDocument) string {
		return d.UserId
	})

	var pending = make([]PendingVerification, 0, len(byUser))
	for _, userDocs := range byUser {
		entry := PendingVerification{
			UserId:    userDocs[0].UserId,
			Email:     userDocs[0].UserEmail,
			FirstName: userDocs[0].UserFirstName,
			LastName:  userDocs[0].UserLastName,
			Documents: lo.Map(userDocs, func(d database.PendingDocument, _ int) types.VerificationDocument {
				return toApiDocument(d.VerificationDocument)
			}),
		}
		pending = append(pending, entry)
	}

	s.writeJson(w, http.StatusOK, pending)
}

func (s *SportMateApp) reviewVerification(w http.ResponseWriter, r *http.Request) {
	adminId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId := r.PathValue("userId")
	if userId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req ReviewVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.UpdateVerificationStatus(userId, req.Status, req.Notes, adminId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Status == "verified" {
		s.awardRep(userId, "verification_approved", repVerificationApproved, 0, "Identity verified")
	}

	s.writeJson(w, http.StatusOK, toApiUser(user))
}
