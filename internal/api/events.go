package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/types"
)

const eventDateLayout = "2006-01-02"

type CreateEventRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	SportType    string `json:"sportType" validate:"required"`
	SkillLevel   string `json:"skillLevel" validate:"required,oneof=beginner intermediate advanced all"`
	MaxPlayers   int    `json:"maxPlayers" validate:"required,gt=1,lte=100"`
	LocationName string `json:"locationName" validate:"required"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	EventDate    string `json:"eventDate" validate:"required"`
	EventTime    string `json:"eventTime" validate:"required"`
	Notes        string `json:"notes"`
}

type CreateRsvpRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=joined interested waitlist"`
}

type SwipeRequest struct {
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

type PostMessageRequest struct {
	Message string `json:"message"`
}

func eventIdFromPath(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// canAccessEventChat reports whether a user may read or post to an event's
// chat: the host always can, everyone else needs an RSVP.
func (s *SportMateApp) canAccessEventChat(event database.Event, userId string) (bool, error) {
	if event.HostId == userId {
		return true, nil
	}

	rsvps, err := s.db.GetRsvpsByUser(userId)
	if err != nil {
		return false, err
	}

	return lo.ContainsBy(rsvps, func(r database.EventRsvp) bool {
		return r.EventId == event.Id
	}), nil
}

func (s *SportMateApp) listEvents(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	filters := database.EventFilters{
		SportType:  r.URL.Query().Get("sport"),
		SkillLevel: r.URL.Query().Get("skill"),
	}
	// The swipe deck hides events the user already acted on.
	if r.URL.Query().Get("forSwiping") == "true" {
		filters.ExcludeSwipedBy = userId
	}

	events, err := s.db.GetEvents(filters)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(events, func(e database.Event, _ int) types.Event {
		return toApiEvent(e)
	}))
}

func (s *SportMateApp) createEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateEventRequest
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

	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		errResp := NewValidationError("Event date must be in YYYY-MM-DD format")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetUser(userId)
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

	if user.VerificationStatus != "verified" {
		errResp := NewForbiddenErrorWithMessage("Account verification required to host events")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// Posting an event for the same day is a premium perk.
	now := time.Now().UTC()
	if eventDate.Format(eventDateLayout) == now.Format(eventDateLayout) {
		hasAccess, err := s.db.CheckPremiumAccess(userId, "same_day_events")
		if err != nil {
			errResp := NewInternalServerError(err)
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		if !hasAccess {
			errResp := NewForbiddenErrorWithMessage("Same-day events require a premium membership")
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	event, err := s.db.CreateEvent(database.CreateEventParams{
		HostId:       userId,
		Title:        req.Title,
		Description:  req.Description,
		SportType:    req.SportType,
		SkillLevel:   req.SkillLevel,
		MaxPlayers:   req.MaxPlayers,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		EventDate:    eventDate,
		EventTime:    req.EventTime,
		Notes:        req.Notes,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.awardRep(userId, "event_hosted", repEventHosted, event.Id, "Hosted "+event.Title)

	s.writeJson(w, http.StatusCreated, toApiEvent(event))
}

func (s *SportMateApp) getEvent(w http.ResponseWriter, r *http.Request) {
	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	s.writeJson(w, http.StatusOK, toApiEvent(event))
}

func (s *SportMateApp) updateEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateEventRequest
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

	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		errResp := NewValidationError("Event date must be in YYYY-MM-DD format")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	if event.HostId != userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateEvent(eventId, database.UpdateEventParams{
		Title:        req.Title,
		Description:  req.Description,
		SportType:    req.SportType,
		SkillLevel:   req.SkillLevel,
		MaxPlayers:   req.MaxPlayers,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		EventDate:    eventDate,
		EventTime:    req.EventTime,
		Notes:        req.Notes,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, toApiEvent(updated))
}

func (s *SportMateApp) cancelEvent(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	if event.HostId != userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.CancelEvent(eventId); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *SportMateApp) hostEvents(w http.ResponseWriter, r *http.Request) {
	hostId := r.PathValue("hostId")
	if hostId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	events, err := s.db.GetEventsByHost(hostId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(events, func(e database.Event, _ int) types.Event {
		return toApiEvent(e)
	}))
}

func (s *SportMateApp) createRsvp(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// Status is optional; an empty body means a full join.
	var req CreateRsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if req.Status == "" {
		req.Status = "joined"
	}

	if err := validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	if event.IsCanceled {
		errResp := NewValidationError("Event has been canceled")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Status == "joined" && event.CurrentPlayers >= event.MaxPlayers {
		errResp := NewValidationError("Event is full")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rsvp, err := s.db.CreateRsvp(database.CreateRsvpParams{
		EventId: eventId,
		UserId:  userId,
		Status:  req.Status,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if rsvp.Status == "joined" {
		s.awardRep(userId, "event_joined", repEventJoined, eventId, "Joined "+event.Title)
	}

	s.writeJson(w, http.StatusCreated, toApiRsvp(rsvp))
}

func (s *SportMateApp) deleteRsvp(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteRsvp(eventId, userId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *SportMateApp) eventRsvps(w http.ResponseWriter, r *http.Request) {
	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rsvps, err := s.db.GetRsvpsByEvent(eventId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(rsvps, func(r database.EventRsvp, _ int) types.EventRsvp {
		return toApiRsvp(r)
	}))
}

func (s *SportMateApp) recordSwipe(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req SwipeRequest
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

	if _, err := s.db.GetEventById(eventId); err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	swipe, err := s.db.RecordSwipe(userId, eventId, req.Direction)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, toApiSwipe(swipe))
}

func (s *SportMateApp) eventMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	allowed, err := s.canAccessEventChat(event, userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if !allowed {
		errResp := NewForbiddenErrorWithMessage("Access denied to event chat")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages, err := s.db.GetEventMessages(eventId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(messages, func(m database.EventMessage, _ int) types.EventMessage {
		return toApiMessage(m)
	}))
}

func (s *SportMateApp) postEventMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	eventId, err := eventIdFromPath(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		errResp := NewValidationError("Message content is required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if s.filter.Contains(message) {
		errResp := NewContentBlockedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	event, err := s.db.GetEventById(eventId)
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

	allowed, err := s.canAccessEventChat(event, userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if !allowed {
		errResp := NewForbiddenErrorWithMessage("Access denied to event chat")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateEventMessage(database.CreateMessageParams{
		EventId: eventId,
		UserId:  userId,
		Message: message,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, toApiMessage(msg))
}
