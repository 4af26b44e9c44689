package database

type SportMateRepository interface {
	Ping() error
	UpsertUser(params UpsertUserParams) (User, error)
	GetUser(id string) (User, error)
	UpdateUserPreferences(params UpdatePreferencesParams) (User, error)
	CheckPremiumAccess(userId, feature string) (bool, error)
	CreateEvent(params CreateEventParams) (Event, error)
	GetEvents(filters EventFilters) ([]Event, error)
	GetEventById(id int) (Event, error)
	GetEventsByHost(hostId string) ([]Event, error)
	UpdateEvent(id int, params UpdateEventParams) (Event, error)
	CancelEvent(id int) error
	CreateRsvp(params CreateRsvpParams) (EventRsvp, error)
	GetRsvpsByEvent(eventId int) ([]EventRsvp, error)
	GetRsvpsByUser(userId string) ([]EventRsvp, error)
	DeleteRsvp(eventId int, userId string) error
	RecordSwipe(userId string, eventId int, direction string) (UserSwipe, error)
	GetSwipesByUser(userId string) ([]UserSwipe, error)
	CreateEventMessage(params CreateMessageParams) (EventMessage, error)
	GetEventMessages(eventId int) ([]EventMessage, error)
	CreateVerificationDocument(params CreateDocumentParams) (VerificationDocument, error)
	GetVerificationDocuments(userId string) ([]VerificationDocument, error)
	GetPendingVerificationDocuments() ([]PendingDocument, error)
	UpdateVerificationStatus(userId, status, notes, reviewedBy string) (User, error)
	SubmitLocation(params SubmitLocationParams) (Location, error)
	GetLocations(filters LocationFilters) ([]Location, error)
	GetLocationById(id int) (Location, error)
	ReviewLocation(id int, status, notes, reviewedBy string) (Location, error)
	AddRepPoints(params AddRepPointsParams) (RepActivity, error)
	GetRepPoints(userId string) (int, error)
}
