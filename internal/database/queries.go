package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
)

const (
	userColumns = "id, email, COALESCE(first_name, ''), COALESCE(last_name, ''), " +
		"COALESCE(profile_image_url, ''), COALESCE(gender_identity, ''), " +
		"COALESCE(sports_interests, '{}'), COALESCE(skill_level, ''), search_radius, " +
		"is_verified, verification_status, rep_points, user_tier, is_admin, created_at, updated_at"

	eventColumns = "id, host_id, title, COALESCE(description, ''), sport_type, skill_level, " +
		"max_players, current_players, location_name, COALESCE(latitude, ''), " +
		"COALESCE(longitude, ''), event_date, event_time, COALESCE(notes, ''), " +
		"is_approved, is_canceled, created_at, updated_at"

	locationColumns = "id, name, address, COALESCE(latitude, ''), COALESCE(longitude, ''), " +
		"location_type, COALESCE(photo_url, ''), COALESCE(description, ''), submitted_by, " +
		"status, approval_tier, COALESCE(review_notes, ''), COALESCE(reviewed_by, ''), " +
		"reviewed_at, is_public_space, requires_permit, COALESCE(max_capacity, 0), " +
		"COALESCE(amenities, '{}'), COALESCE(operating_hours, ''), COALESCE(contact_info, ''), " +
		"created_at, updated_at"

	documentColumns = "id, user_id, document_type, file_name, file_url, review_status, " +
		"COALESCE(review_notes, ''), COALESCE(reviewed_by, ''), uploaded_at, verified_at"

	createRsvpQuery = "INSERT INTO event_rsvps (event_id, user_id, status, joined_at) " +
		"VALUES ($1, $2, $3, $4) RETURNING id, event_id, user_id, status, joined_at"

	addPlayerQuery    = "UPDATE events SET current_players = current_players + 1 WHERE id = $1"
	removePlayerQuery = "UPDATE events SET current_players = GREATEST(current_players - 1, 0) WHERE id = $1"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.Id,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfileImageUrl,
		&u.GenderIdentity,
		pq.Array(&u.SportsInterests),
		&u.SkillLevel,
		&u.SearchRadius,
		&u.IsVerified,
		&u.VerificationStatus,
		&u.RepPoints,
		&u.UserTier,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func scanEvent(s scanner) (Event, error) {
	var e Event
	err := s.Scan(
		&e.Id,
		&e.HostId,
		&e.Title,
		&e.Description,
		&e.SportType,
		&e.SkillLevel,
		&e.MaxPlayers,
		&e.CurrentPlayers,
		&e.LocationName,
		&e.Latitude,
		&e.Longitude,
		&e.EventDate,
		&e.EventTime,
		&e.Notes,
		&e.IsApproved,
		&e.IsCanceled,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	return e, err
}

func scanLocation(s scanner) (Location, error) {
	var l Location
	var reviewedAt sql.NullTime
	err := s.Scan(
		&l.Id,
		&l.Name,
		&l.Address,
		&l.Latitude,
		&l.Longitude,
		&l.LocationType,
		&l.PhotoUrl,
		&l.Description,
		&l.SubmittedBy,
		&l.Status,
		&l.ApprovalTier,
		&l.ReviewNotes,
		&l.ReviewedBy,
		&reviewedAt,
		&l.IsPublicSpace,
		&l.RequiresPermit,
		&l.MaxCapacity,
		pq.Array(&l.Amenities),
		&l.OperatingHours,
		&l.ContactInfo,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	l.ReviewedAt = reviewedAt.Time

	return l, err
}

func scanDocument(s scanner) (VerificationDocument, error) {
	var d VerificationDocument
	var verifiedAt sql.NullTime
	err := s.Scan(
		&d.Id,
		&d.UserId,
		&d.DocumentType,
		&d.FileName,
		&d.FileUrl,
		&d.ReviewStatus,
		&d.ReviewNotes,
		&d.ReviewedBy,
		&d.UploadedAt,
		&verifiedAt,
	)
	d.VerifiedAt = verifiedAt.Time

	return d, err
}

func (db *PgSportMateRepository) UpsertUser(params UpsertUserParams) (User, error) {
	row := db.conn.QueryRow(
		"INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $6) "+
			"ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, first_name = EXCLUDED.first_name, "+
			"last_name = EXCLUDED.last_name, profile_image_url = EXCLUDED.profile_image_url, "+
			"updated_at = EXCLUDED.updated_at "+
			"RETURNING "+userColumns,
		params.Id,
		params.Email,
		params.FirstName,
		params.LastName,
		params.ProfileImageUrl,
		time.Now().UTC(),
	)

	return scanUser(row)
}

func (db *PgSportMateRepository) GetUser(id string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1",
		id,
	)

	return scanUser(row)
}

func (db *PgSportMateRepository) UpdateUserPreferences(params UpdatePreferencesParams) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE users SET gender_identity = $2, sports_interests = $3, skill_level = $4, "+
			"search_radius = $5, updated_at = $6 WHERE id = $1 RETURNING "+userColumns,
		params.UserId,
		params.GenderIdentity,
		pq.Array(params.SportsInterests),
		params.SkillLevel,
		params.SearchRadius,
		time.Now().UTC(),
	)

	return scanUser(row)
}

func (db *PgSportMateRepository) CheckPremiumAccess(userId, feature string) (bool, error) {
	tiers, ok := premiumFeatures[feature]
	if !ok {
		return false, nil
	}

	user, err := db.GetUser(userId)
	if err != nil {
		return false, err
	}

	return lo.Contains(tiers, user.UserTier), nil
}

func (db *PgSportMateRepository) CreateEvent(params CreateEventParams) (Event, error) {
	row := db.conn.QueryRow(
		"INSERT INTO events (host_id, title, description, sport_type, skill_level, max_players, "+
			"location_name, latitude, longitude, event_date, event_time, notes, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) "+
			"RETURNING "+eventColumns,
		params.HostId,
		params.Title,
		params.Description,
		params.SportType,
		params.SkillLevel,
		params.MaxPlayers,
		params.LocationName,
		params.Latitude,
		params.Longitude,
		params.EventDate,
		params.EventTime,
		params.Notes,
		time.Now().UTC(),
	)

	return scanEvent(row)
}

func (db *PgSportMateRepository) GetEvents(filters EventFilters) ([]Event, error) {
	query := "SELECT " + eventColumns + " FROM events " +
		"WHERE is_approved = TRUE AND is_canceled = FALSE AND event_date >= $1"
	args := []any{time.Now().UTC()}

	if filters.SportType != "" {
		args = append(args, filters.SportType)
		query += fmt.Sprintf(" AND sport_type = $%d", len(args))
	}
	if filters.SkillLevel != "" {
		args = append(args, filters.SkillLevel)
		query += fmt.Sprintf(" AND skill_level = $%d", len(args))
	}
	if filters.ExcludeSwipedBy != "" {
		args = append(args, filters.ExcludeSwipedBy)
		query += fmt.Sprintf(
			" AND NOT EXISTS (SELECT 1 FROM user_swipes s WHERE s.event_id = events.id AND s.user_id = $%d)",
			len(args),
		)
	}
	query += " ORDER BY event_date ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events = make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (db *PgSportMateRepository) GetEventById(id int) (Event, error) {
	row := db.conn.QueryRow(
		"SELECT "+eventColumns+" FROM events WHERE id = $1 LIMIT 1",
		id,
	)

	return scanEvent(row)
}

func (db *PgSportMateRepository) GetEventsByHost(hostId string) ([]Event, error) {
	rows, err := db.conn.Query(
		"SELECT "+eventColumns+" FROM events WHERE host_id = $1 ORDER BY event_date DESC",
		hostId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events = make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (db *PgSportMateRepository) UpdateEvent(id int, params UpdateEventParams) (Event, error) {
	row := db.conn.QueryRow(
		"UPDATE events SET title = $2, description = $3, sport_type = $4, skill_level = $5, "+
			"max_players = $6, location_name = $7, latitude = $8, longitude = $9, event_date = $10, "+
			"event_time = $11, notes = $12, updated_at = $13 WHERE id = $1 RETURNING "+eventColumns,
		id,
		params.Title,
		params.Description,
		params.SportType,
		params.SkillLevel,
		params.MaxPlayers,
		params.LocationName,
		params.Latitude,
		params.Longitude,
		params.EventDate,
		params.EventTime,
		params.Notes,
		time.Now().UTC(),
	)

	return scanEvent(row)
}

func (db *PgSportMateRepository) CancelEvent(id int) error {
	res, err := db.conn.Exec(
		"UPDATE events SET is_canceled = TRUE, updated_at = $2 WHERE id = $1",
		id,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgSportMateRepository) CreateRsvp(params CreateRsvpParams) (EventRsvp, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return EventRsvp{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	row := tx.QueryRow(
		createRsvpQuery,
		params.EventId,
		params.UserId,
		params.Status,
		time.Now().UTC(),
	)

	var rsvp EventRsvp
	err = row.Scan(&rsvp.Id, &rsvp.EventId, &rsvp.UserId, &rsvp.Status, &rsvp.JoinedAt)
	if err != nil {
		return EventRsvp{}, err
	}

	_, err = tx.Exec(addPlayerQuery, params.EventId)
	if err != nil {
		return EventRsvp{}, err
	}

	if err = tx.Commit(); err != nil {
		return EventRsvp{}, err
	}

	return rsvp, nil
}

func (db *PgSportMateRepository) GetRsvpsByEvent(eventId int) ([]EventRsvp, error) {
	rows, err := db.conn.Query(
		"SELECT id, event_id, user_id, status, joined_at FROM event_rsvps WHERE event_id = $1",
		eventId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps = make([]EventRsvp, 0)
	for rows.Next() {
		var rsvp EventRsvp
		if err := rows.Scan(&rsvp.Id, &rsvp.EventId, &rsvp.UserId, &rsvp.Status, &rsvp.JoinedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}

	return rsvps, rows.Err()
}

func (db *PgSportMateRepository) GetRsvpsByUser(userId string) ([]EventRsvp, error) {
	rows, err := db.conn.Query(
		"SELECT r.id, r.event_id, r.user_id, r.status, r.joined_at, "+
			"e.id, e.host_id, e.title, COALESCE(e.description, ''), e.sport_type, e.skill_level, "+
			"e.max_players, e.current_players, e.location_name, COALESCE(e.latitude, ''), "+
			"COALESCE(e.longitude, ''), e.event_date, e.event_time, COALESCE(e.notes, ''), "+
			"e.is_approved, e.is_canceled, e.created_at, e.updated_at "+
			"FROM event_rsvps r JOIN events e ON e.id = r.event_id "+
			"WHERE r.user_id = $1 ORDER BY e.event_date ASC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps = make([]EventRsvp, 0)
	for rows.Next() {
		var rsvp EventRsvp
		err := rows.Scan(
			&rsvp.Id,
			&rsvp.EventId,
			&rsvp.UserId,
			&rsvp.Status,
			&rsvp.JoinedAt,
			&rsvp.Event.Id,
			&rsvp.Event.HostId,
			&rsvp.Event.Title,
			&rsvp.Event.Description,
			&rsvp.Event.SportType,
			&rsvp.Event.SkillLevel,
			&rsvp.Event.MaxPlayers,
			&rsvp.Event.CurrentPlayers,
			&rsvp.Event.LocationName,
			&rsvp.Event.Latitude,
			&rsvp.Event.Longitude,
			&rsvp.Event.EventDate,
			&rsvp.Event.EventTime,
			&rsvp.Event.Notes,
			&rsvp.Event.IsApproved,
			&rsvp.Event.IsCanceled,
			&rsvp.Event.CreatedAt,
			&rsvp.Event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}

	return rsvps, rows.Err()
}

func (db *PgSportMateRepository) DeleteRsvp(eventId int, userId string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		"DELETE FROM event_rsvps WHERE event_id = $1 AND user_id = $2",
		eventId,
		userId,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = sql.ErrNoRows
		return err
	}

	_, err = tx.Exec(removePlayerQuery, eventId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgSportMateRepository) RecordSwipe(userId string, eventId int, direction string) (UserSwipe, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return UserSwipe{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	row := tx.QueryRow(
		"INSERT INTO user_swipes (user_id, event_id, direction, swiped_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, user_id, event_id, direction, swiped_at",
		userId,
		eventId,
		direction,
		time.Now().UTC(),
	)

	var swipe UserSwipe
	err = row.Scan(&swipe.Id, &swipe.UserId, &swipe.EventId, &swipe.Direction, &swipe.SwipedAt)
	if err != nil {
		return UserSwipe{}, err
	}

	// A right swipe registers interest in the event.
	if direction == "right" {
		var rsvpId int
		err = tx.QueryRow(
			"SELECT id FROM event_rsvps WHERE event_id = $1 AND user_id = $2 LIMIT 1",
			eventId,
			userId,
		).Scan(&rsvpId)

		if err == sql.ErrNoRows {
			_, err = tx.Exec(createRsvpQuery, eventId, userId, "interested", time.Now().UTC())
			if err != nil {
				return UserSwipe{}, err
			}
			_, err = tx.Exec(addPlayerQuery, eventId)
		}
		if err != nil {
			return UserSwipe{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return UserSwipe{}, err
	}

	return swipe, nil
}

func (db *PgSportMateRepository) GetSwipesByUser(userId string) ([]UserSwipe, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, event_id, direction, swiped_at FROM user_swipes "+
			"WHERE user_id = $1 ORDER BY swiped_at DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swipes = make([]UserSwipe, 0)
	for rows.Next() {
		var swipe UserSwipe
		if err := rows.Scan(&swipe.Id, &swipe.UserId, &swipe.EventId, &swipe.Direction, &swipe.SwipedAt); err != nil {
			return nil, err
		}
		swipes = append(swipes, swipe)
	}

	return swipes, rows.Err()
}

func (db *PgSportMateRepository) CreateEventMessage(params CreateMessageParams) (EventMessage, error) {
	row := db.conn.QueryRow(
		"INSERT INTO event_messages (event_id, user_id, message, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, event_id, user_id, message, created_at",
		params.EventId,
		params.UserId,
		params.Message,
		time.Now().UTC(),
	)

	var msg EventMessage
	err := row.Scan(&msg.Id, &msg.EventId, &msg.UserId, &msg.Message, &msg.CreatedAt)

	return msg, err
}

func (db *PgSportMateRepository) GetEventMessages(eventId int) ([]EventMessage, error) {
	rows, err := db.conn.Query(
		"SELECT m.id, m.event_id, m.user_id, m.message, m.created_at, "+
			"COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.profile_image_url, '') "+
			"FROM event_messages m JOIN users u ON u.id = m.user_id "+
			"WHERE m.event_id = $1 ORDER BY m.created_at ASC",
		eventId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]EventMessage, 0)
	for rows.Next() {
		var msg EventMessage
		err := rows.Scan(
			&msg.Id,
			&msg.EventId,
			&msg.UserId,
			&msg.Message,
			&msg.CreatedAt,
			&msg.UserFirstName,
			&msg.UserLastName,
			&msg.UserProfileImageUrl,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *PgSportMateRepository) CreateVerificationDocument(params CreateDocumentParams) (VerificationDocument, error) {
	row := db.conn.QueryRow(
		"INSERT INTO verification_documents (user_id, document_type, file_name, file_url, uploaded_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING "+documentColumns,
		params.UserId,
		params.DocumentType,
		params.FileName,
		params.FileUrl,
		time.Now().UTC(),
	)

	return scanDocument(row)
}

func (db *PgSportMateRepository) GetVerificationDocuments(userId string) ([]VerificationDocument, error) {
	rows, err := db.conn.Query(
		"SELECT "+documentColumns+" FROM verification_documents "+
			"WHERE user_id = $1 ORDER BY uploaded_at DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs = make([]VerificationDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (db *PgSportMateRepository) GetPendingVerificationDocuments() ([]PendingDocument, error) {
	rows, err := db.conn.Query(
		"SELECT d.id, d.user_id, d.document_type, d.file_name, d.file_url, d.review_status, " +
			"COALESCE(d.review_notes, ''), COALESCE(d.reviewed_by, ''), d.uploaded_at, d.verified_at, " +
			"u.email, COALESCE(u.first_name, ''), COALESCE(u.last_name, '') " +
			"FROM verification_documents d JOIN users u ON u.id = d.user_id " +
			"WHERE d.review_status = 'pending' ORDER BY d.uploaded_at ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs = make([]PendingDocument, 0)
	for rows.Next() {
		var doc PendingDocument
		var verifiedAt sql.NullTime
		err := rows.Scan(
			&doc.Id,
			&doc.UserId,
			&doc.DocumentType,
			&doc.FileName,
			&doc.FileUrl,
			&doc.ReviewStatus,
			&doc.ReviewNotes,
			&doc.ReviewedBy,
			&doc.UploadedAt,
			&verifiedAt,
			&doc.UserEmail,
			&doc.UserFirstName,
			&doc.UserLastName,
		)
		if err != nil {
			return nil, err
		}
		doc.VerifiedAt = verifiedAt.Time
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (db *PgSportMateRepository) UpdateVerificationStatus(userId, status, notes, reviewedBy string) (User, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return User{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	row := tx.QueryRow(
		"UPDATE users SET verification_status = $2, is_verified = ($2 = 'verified'), updated_at = $3 "+
			"WHERE id = $1 RETURNING "+userColumns,
		userId,
		status,
		time.Now().UTC(),
	)

	user, err := scanUser(row)
	if err != nil {
		return User{}, err
	}

	// Only a terminal decision touches the documents. Moving a user back to
	// pending leaves their uploads awaiting review.
	if status == "verified" || status == "rejected" {
		docStatus := "rejected"
		if status == "verified" {
			docStatus = "approved"
		}

		if err = db.reviewPendingDocuments(tx, userId, docStatus, notes, reviewedBy); err != nil {
			return User{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return User{}, err
	}

	return user, nil
}

func (db *PgSportMateRepository) reviewPendingDocuments(tx *sql.Tx, userId, docStatus, notes, reviewedBy string) error {
	_, err := tx.Exec(
		"UPDATE verification_documents SET review_status = $2, review_notes = $3, reviewed_by = $4, "+
			"verified_at = CASE WHEN $2 = 'approved' THEN $5 ELSE NULL END "+
			"WHERE user_id = $1 AND review_status = 'pending'",
		userId,
		docStatus,
		notes,
		reviewedBy,
		time.Now().UTC(),
	)

	return err
}

func (db *PgSportMateRepository) SubmitLocation(params SubmitLocationParams) (Location, error) {
	// Public spaces go through the lighter review tier.
	tier := "tier_2"
	if params.IsPublicSpace {
		tier = "tier_1"
	}

	row := db.conn.QueryRow(
		"INSERT INTO locations (name, address, latitude, longitude, location_type, photo_url, "+
			"description, submitted_by, approval_tier, is_public_space, requires_permit, max_capacity, "+
			"amenities, operating_hours, contact_info, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16) "+
			"RETURNING "+locationColumns,
		params.Name,
		params.Address,
		params.Latitude,
		params.Longitude,
		params.LocationType,
		params.PhotoUrl,
		params.Description,
		params.SubmittedBy,
		tier,
		params.IsPublicSpace,
		params.RequiresPermit,
		params.MaxCapacity,
		pq.Array(params.Amenities),
		params.OperatingHours,
		params.ContactInfo,
		time.Now().UTC(),
	)

	return scanLocation(row)
}

func (db *PgSportMateRepository) GetLocations(filters LocationFilters) ([]Location, error) {
	query := "SELECT " + locationColumns + " FROM locations"
	var args []any
	var where []string

	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.LocationType != "" {
		args = append(args, filters.LocationType)
		where = append(where, fmt.Sprintf("location_type = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations = make([]Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

func (db *PgSportMateRepository) GetLocationById(id int) (Location, error) {
	row := db.conn.QueryRow(
		"SELECT "+locationColumns+" FROM locations WHERE id = $1 LIMIT 1",
		id,
	)

	return scanLocation(row)
}

func (db *PgSportMateRepository) ReviewLocation(id int, status, notes, reviewedBy string) (Location, error) {
	row := db.conn.QueryRow(
		"UPDATE locations SET status = $2, review_notes = $3, reviewed_by = $4, reviewed_at = $5, "+
			"updated_at = $5 WHERE id = $1 RETURNING "+locationColumns,
		id,
		status,
		notes,
		reviewedBy,
		time.Now().UTC(),
	)

	return scanLocation(row)
}

func (db *PgSportMateRepository) AddRepPoints(params AddRepPointsParams) (RepActivity, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return RepActivity{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var relatedEventId sql.NullInt64
	if params.RelatedEventId != 0 {
		relatedEventId = sql.NullInt64{Int64: int64(params.RelatedEventId), Valid: true}
	}

	row := tx.QueryRow(
		"INSERT INTO rep_activities (user_id, activity_type, points_earned, related_event_id, description, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) "+
			"RETURNING id, user_id, activity_type, points_earned, COALESCE(related_event_id, 0), COALESCE(description, ''), created_at",
		params.UserId,
		params.ActivityType,
		params.Points,
		relatedEventId,
		params.Description,
		time.Now().UTC(),
	)

	var activity RepActivity
	err = row.Scan(
		&activity.Id,
		&activity.UserId,
		&activity.ActivityType,
		&activity.PointsEarned,
		&activity.RelatedEventId,
		&activity.Description,
		&activity.CreatedAt,
	)
	if err != nil {
		return RepActivity{}, err
	}

	var total int
	err = tx.QueryRow(
		"UPDATE users SET rep_points = rep_points + $2, updated_at = $3 WHERE id = $1 RETURNING rep_points",
		params.UserId,
		params.Points,
		time.Now().UTC(),
	).Scan(&total)
	if err != nil {
		return RepActivity{}, err
	}

	_, err = tx.Exec(
		"UPDATE users SET user_tier = $2 WHERE id = $1",
		params.UserId,
		tierForPoints(total),
	)
	if err != nil {
		return RepActivity{}, err
	}

	if err = tx.Commit(); err != nil {
		return RepActivity{}, err
	}

	return activity, nil
}

func (db *PgSportMateRepository) GetRepPoints(userId string) (int, error) {
	var points int
	err := db.conn.QueryRow(
		"SELECT rep_points FROM users WHERE id = $1 LIMIT 1",
		userId,
	).Scan(&points)

	return points, err
}
