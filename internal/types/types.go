package types

import (
	"time"
)

type User struct {
	Id                 string    `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName,omitempty"`
	LastName           string    `json:"lastName,omitempty"`
	ProfileImageUrl    string    `json:"profileImageUrl,omitempty"`
	GenderIdentity     string    `json:"genderIdentity,omitempty"`
	SportsInterests    []string  `json:"sportsInterests,omitempty"`
	SkillLevel         string    `json:"skillLevel,omitempty"`
	SearchRadius       int       `json:"searchRadius"`
	IsVerified         bool      `json:"isVerified"`
	VerificationStatus string    `json:"verificationStatus"`
	RepPoints          int       `json:"repPoints"`
	UserTier           string    `json:"userTier"`
	IsAdmin            bool      `json:"isAdmin"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

type Event struct {
	Id             int       `json:"id"`
	HostId         string    `json:"hostId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	SportType      string    `json:"sportType"`
	SkillLevel     string    `json:"skillLevel"`
	MaxPlayers     int       `json:"maxPlayers"`
	CurrentPlayers int       `json:"currentPlayers"`
	LocationName   string    `json:"locationName"`
	Latitude       string    `json:"latitude,omitempty"`
	Longitude      string    `json:"longitude,omitempty"`
	EventDate      time.Time `json:"eventDate"`
	EventTime      string    `json:"eventTime"`
	Notes          string    `json:"notes,omitempty"`
	IsApproved     bool      `json:"isApproved"`
	IsCanceled     bool      `json:"isCanceled"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

type EventRsvp struct {
	Id       int       `json:"id"`
	EventId  int       `json:"eventId"`
	UserId   string    `json:"userId"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joinedAt"`
	Event    *Event    `json:"event,omitempty"`
}

type UserSwipe struct {
	Id        int       `json:"id"`
	UserId    string    `json:"userId"`
	EventId   int       `json:"eventId"`
	Direction string    `json:"direction"`
	SwipedAt  time.Time `json:"swipedAt"`
}

type EventMessage struct {
	Id        int       `json:"id"`
	EventId   int       `json:"eventId"`
	UserId    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `json:"user,omitempty"`
}

type VerificationDocument struct {
	Id           int       `json:"id"`
	UserId       string    `json:"userId"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	FileUrl      string    `json:"fileUrl"`
	ReviewStatus string    `json:"reviewStatus"`
	ReviewNotes  string    `json:"reviewNotes,omitempty"`
	ReviewedBy   string    `json:"reviewedBy,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
	VerifiedAt   time.Time `json:"verifiedAt,omitempty"`
}

type Location struct {
	Id             int       `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Latitude       string    `json:"latitude,omitempty"`
	Longitude      string    `json:"longitude,omitempty"`
	LocationType   string    `json:"locationType"`
	PhotoUrl       string    `json:"photoUrl,omitempty"`
	Description    string    `json:"description,omitempty"`
	SubmittedBy    string    `json:"submittedBy"`
	Status         string    `json:"status"`
	ApprovalTier   string    `json:"approvalTier"`
	ReviewNotes    string    `json:"reviewNotes,omitempty"`
	ReviewedBy     string    `json:"reviewedBy,omitempty"`
	ReviewedAt     time.Time `json:"reviewedAt,omitempty"`
	IsPublicSpace  bool      `json:"isPublicSpace"`
	RequiresPermit bool      `json:"requiresPermit"`
	MaxCapacity    int       `json:"maxCapacity,omitempty"`
	Amenities      []string  `json:"amenities,omitempty"`
	OperatingHours string    `json:"operatingHours,omitempty"`
	ContactInfo    string    `json:"contactInfo,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

type RepActivity struct {
	Id             int       `json:"id"`
	UserId         string    `json:"userId"`
	ActivityType   string    `json:"activityType"`
	PointsEarned   int       `json:"pointsEarned"`
	RelatedEventId int       `json:"relatedEventId,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
