package database

import "time"

type User struct {
	Id                 string
	Email              string
	FirstName          string
	LastName           string
	ProfileImageUrl    string
	GenderIdentity     string
	SportsInterests    []string
	SkillLevel         string
	SearchRadius       int
	IsVerified         bool
	VerificationStatus string
	RepPoints          int
	UserTier           string
	IsAdmin            bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Event struct {
	Id             int
	HostId         string
	Title          string
	Description    string
	SportType      string
	SkillLevel     string
	MaxPlayers     int
	CurrentPlayers int
	LocationName   string
	Latitude       string
	Longitude      string
	EventDate      time.Time
	EventTime      string
	Notes          string
	IsApproved     bool
	IsCanceled     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type EventRsvp struct {
	Id       int
	EventId  int
	UserId   string
	Status   string
	JoinedAt time.Time
	// Populated by GetRsvpsByUser, which joins event details.
	Event Event
}

type UserSwipe struct {
	Id        int
	UserId    string
	EventId   int
	Direction string
	SwipedAt  time.Time
}

type EventMessage struct {
	Id        int
	EventId   int
	UserId    string
	Message   string
	CreatedAt time.Time
	// Author display fields, populated by GetEventMessages.
	UserFirstName       string
	UserLastName        string
	UserProfileImageUrl string
}

type VerificationDocument struct {
	Id           int
	UserId       string
	DocumentType string
	FileName     string
	FileUrl      string
	ReviewStatus string
	ReviewNotes  string
	ReviewedBy   string
	UploadedAt   time.Time
	VerifiedAt   time.Time
}

type PendingDocument struct {
	VerificationDocument
	UserEmail     string
	UserFirstName string
	UserLastName  string
}

type Location struct {
	Id            int
	Name          string
	Address       string
	Latitude      string
	Longitude     string
	LocationType  string
	PhotoUrl      string
	Description   string
	SubmittedBy   string
	Status        string
	ApprovalTier  string
	ReviewNotes   string
	ReviewedBy    string
	ReviewedAt    time.Time
	IsPublicSpace bool
	RequiresPermit bool
	MaxCapacity   int
	Amenities     []string
	OperatingHours string
	ContactInfo   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RepActivity struct {
	Id             int
	UserId         string
	ActivityType   string
	PointsEarned   int
	RelatedEventId int
	Description    string
	CreatedAt      time.Time
}

type UpsertUserParams struct {
	Id              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageUrl string
}

type UpdatePreferencesParams struct {
	UserId          string
	GenderIdentity  string
	SportsInterests []string
	SkillLevel      string
	SearchRadius    int
}

type CreateEventParams struct {
	HostId       string
	Title        string
	Description  string
	SportType    string
	SkillLevel   string
	MaxPlayers   int
	LocationName string
	Latitude     string
	Longitude    string
	EventDate    time.Time
	EventTime    string
	Notes        string
}

type UpdateEventParams struct {
	Title        string
	Description  string
	SportType    string
	SkillLevel   string
	MaxPlayers   int
	LocationName string
	Latitude     string
	Longitude    string
	EventDate    time.Time
	EventTime    string
	Notes        string
}

type EventFilters struct {
	SportType  string
	SkillLevel string
	// When set, events the user already swiped on are excluded.
	ExcludeSwipedBy string
}

type CreateRsvpParams struct {
	EventId int
	UserId  string
	Status  string
}

type CreateMessageParams struct {
	EventId int
	UserId  string
	Message string
}

type CreateDocumentParams struct {
	UserId       string
	DocumentType string
	FileName     string
	FileUrl      string
}

type SubmitLocationParams struct {
	Name           string
	Address        string
	Latitude       string
	Longitude      string
	LocationType   string
	PhotoUrl       string
	Description    string
	SubmittedBy    string
	IsPublicSpace  bool
	RequiresPermit bool
	MaxCapacity    int
	Amenities      []string
	OperatingHours string
	ContactInfo    string
}

type LocationFilters struct {
	Status       string
	LocationType string
}

type AddRepPointsParams struct {
	UserId         string
	ActivityType   string
	Points         int
	RelatedEventId int
	Description    string
}
