package database

import (
	"github.com/stretchr/testify/mock"
)

type MockSportMateRepository struct {
	mock.Mock
}

func (m *MockSportMateRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockSportMateRepository) UpsertUser(params UpsertUserParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSportMateRepository) GetUser(id string) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSportMateRepository) UpdateUserPreferences(params UpdatePreferencesParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSportMateRepository) CheckPremiumAccess(userId, feature string) (bool, error) {
	args := m.Called(userId, feature)
	return args.Bool(0), args.Error(1)
}
func (m *MockSportMateRepository) CreateEvent(params CreateEventParams) (Event, error) {
	args := m.Called(params)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockSportMateRepository) GetEvents(filters EventFilters) ([]Event, error) {
	args := m.Called(filters)
	return args.Get(0).([]Event), args.Error(1)
}
func (m *MockSportMateRepository) GetEventById(id int) (Event, error) {
	args := m.Called(id)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockSportMateRepository) GetEventsByHost(hostId string) ([]Event, error) {
	args := m.Called(hostId)
	return args.Get(0).([]Event), args.Error(1)
}
func (m *MockSportMateRepository) UpdateEvent(id int, params UpdateEventParams) (Event, error) {
	args := m.Called(id, params)
	return args.Get(0).(Event), args.Error(1)
}
func (m *MockSportMateRepository) CancelEvent(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockSportMateRepository) CreateRsvp(params CreateRsvpParams) (EventRsvp, error) {
	args := m.Called(params)
	return args.Get(0).(EventRsvp), args.Error(1)
}
func (m *MockSportMateRepository) GetRsvpsByEvent(eventId int) ([]EventRsvp, error) {
	args := m.Called(eventId)
	return args.Get(0).([]EventRsvp), args.Error(1)
}
func (m *MockSportMateRepository) GetRsvpsByUser(userId string) ([]EventRsvp, error) {
	args := m.Called(userId)
	return args.Get(0).([]EventRsvp), args.Error(1)
}
func (m *MockSportMateRepository) DeleteRsvp(eventId int, userId string) error {
	args := m.Called(eventId, userId)
	return args.Error(0)
}
func (m *MockSportMateRepository) RecordSwipe(userId string, eventId int, direction string) (UserSwipe, error) {
	args := m.Called(userId, eventId, direction)
	return args.Get(0).(UserSwipe), args.Error(1)
}
func (m *MockSportMateRepository) GetSwipesByUser(userId string) ([]UserSwipe, error) {
	args := m.Called(userId)
	return args.Get(0).([]UserSwipe), args.Error(1)
}
func (m *MockSportMateRepository) CreateEventMessage(params CreateMessageParams) (EventMessage, error) {
	args := m.Called(params)
	return args.Get(0).(EventMessage), args.Error(1)
}
func (m *MockSportMateRepository) GetEventMessages(eventId int) ([]EventMessage, error) {
	args := m.Called(eventId)
	return args.Get(0).([]EventMessage), args.Error(1)
}
func (m *MockSportMateRepository) CreateVerificationDocument(params CreateDocumentParams) (VerificationDocument, error) {
	args := m.Called(params)
	return args.Get(0).(VerificationDocument), args.Error(1)
}
func (m *MockSportMateRepository) GetVerificationDocuments(userId string) ([]VerificationDocument, error) {
	args := m.Called(userId)
	return args.Get(0).([]VerificationDocument), args.Error(1)
}
func (m *MockSportMateRepository) GetPendingVerificationDocuments() ([]PendingDocument, error) {
	args := m.Called()
	return args.Get(0).([]PendingDocument), args.Error(1)
}
func (m *MockSportMateRepository) UpdateVerificationStatus(userId, status, notes, reviewedBy string) (User, error) {
	args := m.Called(userId, status, notes, reviewedBy)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSportMateRepository) SubmitLocation(params SubmitLocationParams) (Location, error) {
	args := m.Called(params)
	return args.Get(0).(Location), args.Error(1)
}
func (m *MockSportMateRepository) GetLocations(filters LocationFilters) ([]Location, error) {
	args := m.Called(filters)
	return args.Get(0).([]Location), args.Error(1)
}
func (m *MockSportMateRepository) GetLocationById(id int) (Location, error) {
	args := m.Called(id)
	return args.Get(0).(Location), args.Error(1)
}
func (m *MockSportMateRepository) ReviewLocation(id int, status, notes, reviewedBy string) (Location, error) {
	args := m.Called(id, status, notes, reviewedBy)
	return args.Get(0).(Location), args.Error(1)
}
func (m *MockSportMateRepository) AddRepPoints(params AddRepPointsParams) (RepActivity, error) {
	args := m.Called(params)
	return args.Get(0).(RepActivity), args.Error(1)
}
func (m *MockSportMateRepository) GetRepPoints(userId string) (int, error) {
	args := m.Called(userId)
	return args.Int(0), args.Error(1)
}
