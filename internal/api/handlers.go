package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/server"
	"github.com/ballerhq/sportmate/internal/types"
)

var validate = validator.New()

// Rep point awards for platform activity.
const (
	repEventHosted          = 15
	repEventJoined          = 5
	repVerificationApproved = 50
)

type UpdatePreferencesRequest struct {
	GenderIdentity  string   `json:"genderIdentity"`
	SportsInterests []string `json:"sportsInterests"`
	SkillLevel      string   `json:"skillLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	SearchRadius    int      `json:"searchRadius" validate:"omitempty,gt=0,lte=100"`
}

func (s *SportMateApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func toApiUser(u database.User) types.User {
	return types.User{
		Id:                 u.Id,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		ProfileImageUrl:    u.ProfileImageUrl,
		GenderIdentity:     u.GenderIdentity,
		SportsInterests:    u.SportsInterests,
		SkillLevel:         u.SkillLevel,
		SearchRadius:       u.SearchRadius,
		IsVerified:         u.IsVerified,
		VerificationStatus: u.VerificationStatus,
		RepPoints:          u.RepPoints,
		UserTier:           u.UserTier,
		IsAdmin:            u.IsAdmin,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toApiEvent(e database.Event) types.Event {
	return types.Event{
		Id:             e.Id,
		HostId:         e.HostId,
		Title:          e.Title,
		Description:    e.Description,
		SportType:      e.SportType,
		SkillLevel:     e.SkillLevel,
		MaxPlayers:     e.MaxPlayers,
		CurrentPlayers: e.CurrentPlayers,
		LocationName:   e.LocationName,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		EventDate:      e.EventDate,
		EventTime:      e.EventTime,
		Notes:          e.Notes,
		IsApproved:     e.IsApproved,
		IsCanceled:     e.IsCanceled,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toApiRsvp(r database.EventRsvp) types.EventRsvp {
	rsvp := types.EventRsvp{
		Id:       r.Id,
		EventId:  r.EventId,
		UserId:   r.UserId,
		Status:   r.Status,
		JoinedAt: r.JoinedAt,
	}
	if r.Event.Id != 0 {
		event := toApiEvent(r.Event)
		rsvp.Event = &event
	}

	return rsvp
}

func toApiSwipe(s database.UserSwipe) types.UserSwipe {
	return types.UserSwipe{
		Id:        s.Id,
		UserId:    s.UserId,
		EventId:   s.EventId,
		Direction: s.Direction,
		SwipedAt:  s.SwipedAt,
	}
}

func toApiMessage(m database.EventMessage) types.EventMessage {
	return types.EventMessage{
		Id:        m.Id,
		EventId:   m.EventId,
		UserId:    m.UserId,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		User: &types.User{
			Id:              m.UserId,
			FirstName:       m.UserFirstName,
			LastName:        m.UserLastName,
			ProfileImageUrl: m.UserProfileImageUrl,
		},
	}
}

func toApiDocument(d database.VerificationDocument) types.VerificationDocument {
	return types.VerificationDocument{
		Id:           d.Id,
		UserId:       d.UserId,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		FileUrl:      d.FileUrl,
		ReviewStatus: d.ReviewStatus,
		ReviewNotes:  d.ReviewNotes,
		ReviewedBy:   d.ReviewedBy,
		UploadedAt:   d.UploadedAt,
		VerifiedAt:   d.VerifiedAt,
	}
}

func toApiLocation(l database.Location) types.Location {
	return types.Location{
		Id:             l.Id,
		Name:           l.Name,
		Address:        l.Address,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		LocationType:   l.LocationType,
		PhotoUrl:       l.PhotoUrl,
		Description:    l.Description,
		SubmittedBy:    l.SubmittedBy,
		Status:         l.Status,
		ApprovalTier:   l.ApprovalTier,
		ReviewNotes:    l.ReviewNotes,
		ReviewedBy:     l.ReviewedBy,
		ReviewedAt:     l.ReviewedAt,
		IsPublicSpace:  l.IsPublicSpace,
		RequiresPermit: l.RequiresPermit,
		MaxCapacity:    l.MaxCapacity,
		Amenities:      l.Amenities,
		OperatingHours: l.OperatingHours,
		ContactInfo:    l.ContactInfo,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// awardRep records a rep activity for a user. Failures are logged rather than
// surfaced, so a rep bookkeeping problem never fails the request that earned
// the points.
func (s *SportMateApp) awardRep(userId, activityType string, points, relatedEventId int, description string) {
	_, err := s.db.AddRepPoints(database.AddRepPointsParams{
		UserId:         userId,
		ActivityType:   activityType,
		Points:         points,
		RelatedEventId: relatedEventId,
		Description:    description,
	})
	if err != nil {
		s.log.Printf("failed to award %d rep points to %s for %s: %v", points, userId, activityType, err)
	}
}

// authUser mirrors the identity provider's claims into the users table and
// returns the stored profile.
func (s *SportMateApp) authUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.UpsertUser(database.UpsertUserParams{
		Id:              identity.Id,
		Email:           identity.Email,
		FirstName:       identity.FirstName,
		LastName:        identity.LastName,
		ProfileImageUrl: identity.ProfileImageUrl,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, toApiUser(user))
}

func (s *SportMateApp) updatePreferences(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdatePreferencesRequest
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

	user, err := s.db.UpdateUserPreferences(database.UpdatePreferencesParams{
		UserId:          userId,
		GenderIdentity:  req.GenderIdentity,
		SportsInterests: req.SportsInterests,
		SkillLevel:      req.SkillLevel,
		SearchRadius:    req.SearchRadius,
	})
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

	s.writeJson(w, http.StatusOK, toApiUser(user))
}

type UserStats struct {
	RepPoints    int    `json:"repPoints"`
	UserTier     string `json:"userTier"`
	EventsHosted int    `json:"eventsHosted"`
	EventsJoined int    `json:"eventsJoined"`
}

func (s *SportMateApp) userStats(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
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

	hosted, err := s.db.GetEventsByHost(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rsvps, err := s.db.GetRsvpsByUser(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, UserStats{
		RepPoints:    user.RepPoints,
		UserTier:     user.UserTier,
		EventsHosted: len(hosted),
		EventsJoined: len(rsvps),
	})
}

func (s *SportMateApp) repPoints(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	points, err := s.db.GetRepPoints(userId)
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

	s.writeJson(w, http.StatusOK, map[string]int{"repPoints": points})
}

func (s *SportMateApp) premiumAccess(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	feature := r.PathValue("feature")
	hasAccess, err := s.db.CheckPremiumAccess(userId, feature)
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

	s.writeJson(w, http.StatusOK, map[string]bool{"hasAccess": hasAccess})
}

func (s *SportMateApp) userRsvps(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rsvps, err := s.db.GetRsvpsByUser(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(rsvps, func(r database.EventRsvp, _ int) types.EventRsvp {
		return toApiRsvp(r)
	}))
}

func (s *SportMateApp) userSwipes(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	swipes, err := s.db.GetSwipesByUser(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(swipes, func(sw database.UserSwipe, _ int) types.UserSwipe {
		return toApiSwipe(sw)
	}))
}

func (s *SportMateApp) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		s.writeJson(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	s.writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *SportMateApp) serveWs(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
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

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// only allow connections from allowed origins
			origin := r.Header.Get("Origin")
			if origin == "" {
				// if no origin header, allow the request
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := server.NewClient(toApiUser(user), conn, s.cs, s.log)

	s.cs.RegisterClient(client)
	go client.Write()
	go client.Read()
}
