package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/teris-io/shortid"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/types"
)

const maxUploadSize = 10 << 20 // 10 MB

// Document uploads required for identity verification, keyed by form field.
var requiredDocuments = map[string]string{
	"selfie":       "selfie",
	"governmentId": "government_id",
}

type SubmitLocationRequest struct {
	Name           string   `json:"name" validate:"required"`
	Address        string   `json:"address" validate:"required"`
	Latitude       string   `json:"latitude"`
	Longitude      string   `json:"longitude"`
	LocationType   string   `json:"locationType" validate:"required"`
	PhotoUrl       string   `json:"photoUrl"`
	Description    string   `json:"description"`
	IsPublicSpace  bool     `json:"isPublicSpace"`
	RequiresPermit bool     `json:"requiresPermit"`
	MaxCapacity    int      `json:"maxCapacity" validate:"omitempty,gt=0"`
	Amenities      []string `json:"amenities"`
	OperatingHours string   `json:"operatingHours"`
	ContactInfo    string   `json:"contactInfo"`
}

// saveUpload writes an uploaded image under the verification upload directory
// and returns the stored document's file name and public URL path.
func (s *SportMateApp) saveUpload(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("unsupported content type %q", contentType)
	}

	id, err := shortid.Generate()
	if err != nil {
		return "", "", fmt.Errorf("generate file id: %w", err)
	}

	dir := filepath.Join(s.uploadDir, "verification")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	fileName := id + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", fmt.Errorf("write upload file: %w", err)
	}

	return fileName, "/uploads/verification/" + fileName, nil
}

func (s *SportMateApp) uploadVerificationDocuments(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		errResp := NewValidationError("Invalid upload")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var docs []types.VerificationDocument
	for field, documentType := range requiredDocuments {
		file, header, err := r.FormFile(field)
		if err != nil {
			errResp := NewValidationError("Both a selfie and a government ID are required")
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		fileName, fileUrl, err := s.saveUpload(file, header)
		file.Close()
		if err != nil {
			s.log.Printf("failed to store %s upload for %s: %v", documentType, userId, err)
			errResp := NewValidationError("Uploaded documents must be images")
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		doc, err := s.db.CreateVerificationDocument(database.CreateDocumentParams{
			UserId:       userId,
			DocumentType: documentType,
			FileName:     fileName,
			FileUrl:      fileUrl,
		})
		if err != nil {
			errResp := NewInternalServerError(err)
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		docs = append(docs, toApiDocument(doc))
	}

	// Fresh documents put the account back in the review queue.
	if _, err := s.db.UpdateVerificationStatus(userId, "pending", "", ""); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, docs)
}

func (s *SportMateApp) verificationDocuments(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	docs, err := s.db.GetVerificationDocuments(userId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, lo.Map(docs, func(d database.VerificationDocument, _ int) types.VerificationDocument {
		return toApiDocument(d)
	}))
}

// requestVerificationReview re-queues a rejected account for another review
// pass without requiring new uploads.
func (s *SportMateApp) requestVerificationReview(w http.ResponseWriter, r *http.Request) {
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

	if user.VerificationStatus == "verified" {
		errResp := NewValidationError("Account is already verified")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateVerificationStatus(userId, "pending", "", "")
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, toApiUser(updated))
}

func (s *SportMateApp) submitLocation(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req SubmitLocationRequest
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

	location, err := s.db.SubmitLocation(database.SubmitLocationParams{
		Name:           req.Name,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LocationType:   req.LocationType,
		PhotoUrl:       req.PhotoUrl,
		Description:    req.Description,
		SubmittedBy:    userId,
		IsPublicSpace:  req.IsPublicSpace,
		RequiresPermit: req.RequiresPermit,
		MaxCapacity:    req.MaxCapacity,
		Amenities:      req.Amenities,
		OperatingHours: req.OperatingHours,
		ContactInfo:    req.ContactInfo,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, toApiLocation(location))
}

func (s *SportMateApp) listLocations(w http.ResponseWriter, r *http.Request) {
	// Browsing defaults to approved locations.
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "approved"
	}

	locations, err := s.db.GetLocations(database.LocationFilters{
		Status:       status,
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
