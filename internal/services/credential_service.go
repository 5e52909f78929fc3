package services

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/imageprocessor"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/internal/storage"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UploadPolicy limits credential files.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

func (p UploadPolicy) check(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.ErrFileRequired
	}
	if p.MaxSize > 0 && file.Size > p.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if len(p.AllowedTypes) == 0 {
		return contentType, nil
	}
	for _, allowed := range p.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return contentType, nil
		}
	}
	return "", apperrors.ErrInvalidFileType
}

type CredentialService interface {
	Create(ctx context.Context, db *gorm.DB, uploaderID string, role models.UserRole, req *dto.CreateCredentialRequest, file *multipart.FileHeader) (*models.Credential, error)
	Get(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string) (*models.Credential, error)
	ListMine(ctx context.Context, db *gorm.DB, learnerID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error)
	ListIssued(ctx context.Context, db *gorm.DB, institutionID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error)
	Update(ctx context.Context, db *gorm.DB, learnerID, id string, req *dto.UpdateCredentialRequest) (*models.Credential, error)
	Delete(ctx context.Context, db *gorm.DB, learnerID, id string) error

	Verify(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, id string) (*models.Credential, error)
	Reject(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, id, reason string) (*models.Credential, error)
	// BulkVerify reports an outcome per id and never fails the batch for one id.
	BulkVerify(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, ids []string) (*dto.BulkVerifyResponse, error)
	Expire(ctx context.Context, db *gorm.DB, id string) (*models.Credential, error)

	VerifyByNumber(ctx context.Context, db *gorm.DB, number string) (*dto.PublicCredentialResponse, error)
	VerifyByFile(ctx context.Context, db *gorm.DB, file *multipart.FileHeader) ([]dto.PublicCredentialResponse, error)
}

type credentialService struct {
	credentialRepo repositories.CredentialRepository
	userRepo       repositories.UserRepository
	store          storage.Storage
	ai             SkillAI
	notifier       NotificationService
	policy         UploadPolicy
	previews       *imageprocessor.Processor
	clock          clock
}

func NewCredentialService(
	credentialRepo repositories.CredentialRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	skillAI SkillAI,
	notifier NotificationService,
	policy UploadPolicy,
) CredentialService {
	return &credentialService{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		store:          store,
		ai:             skillAI,
		notifier:       notifier,
		policy:         policy,
		previews:       imageprocessor.NewProcessor(85, imageprocessor.PreviewMaxSide),
	}
}

func (s *credentialService) Create(ctx context.Context, db *gorm.DB, uploaderID string, role models.UserRole, req *dto.CreateCredentialRequest, file *multipart.FileHeader) (*models.Credential, error) {
	contentType, err := s.policy.check(file)
	if err != nil {
		return nil, err
	}

	credential := &models.Credential{
		Title:       strings.TrimSpace(req.Title),
		Type:        req.Type,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		IssueDate:   req.IssueDate,
		ExpiryDate:  req.ExpiryDate,
		Status:      models.VerificationPending,
	}
	if number := strings.TrimSpace(req.CredentialNumber); number != "" {
		credential.CredentialNumber = &number
	}

	switch role {
	case models.UserRoleLearner:
		credential.LearnerID = uploaderID
		if req.InstitutionID != "" {
			if _, err := s.requireRole(db, req.InstitutionID, models.UserRoleInstitution, "institution_id"); err != nil {
				return nil, err
			}
			credential.InstitutionID = &req.InstitutionID
		}
	case models.UserRoleInstitution:
		if req.LearnerID == "" {
			return nil, apperrors.ValidationError(map[string]string{"learner_id": "is required"})
		}
		if _, err := s.requireRole(db, req.LearnerID, models.UserRoleLearner, "learner_id"); err != nil {
			return nil, err
		}
		credential.LearnerID = req.LearnerID
		credential.InstitutionID = &uploaderID
		// Issued by the institution itself, so it starts verified.
		now := s.clock.now()
		credential.Status = models.VerificationVerified
		credential.VerifiedBy = &uploaderID
		credential.VerifiedAt = &now
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	if credential.CredentialNumber != nil {
		if _, err := s.credentialRepo.FindByNumber(db, *credential.CredentialNumber); err == nil {
			return nil, apperrors.ErrCredentialNumberTaken
		} else if !errors.Is(err, repositories.ErrCredentialNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	s.deriveSkillsAndLevel(ctx, credential, req.Skills, req.NSQFLevel)

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	stored, err := storage.Upload(ctx, s.store, "credentials/"+credential.LearnerID, file.Filename, src, contentType)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", http.StatusBadGateway)
	}
	credential.File = models.CredentialFile{
		Path:     stored.Path,
		URL:      stored.URL,
		Hash:     stored.Hash,
		Size:     stored.Size,
		MimeType: contentType,
		Name:     file.Filename,
	}
	if imageprocessor.IsImage(contentType) {
		s.attachPreview(ctx, credential, file)
	}

	if err := s.credentialRepo.Create(db, credential); err != nil {
		s.deleteFiles(ctx, credential.File)
		return nil, handleCredentialError(err)
	}

	logger.CtxInfo(ctx, "Credential created",
		"credential_id", credential.ID,
		"learner_id", credential.LearnerID,
		"skills_source", credential.SkillsSource,
		"level_source", credential.LevelSource,
	)
	return credential, nil
}

// attachPreview stores a downscaled copy of an image credential. A preview
// that cannot be rendered is skipped; the original upload stands.
func (s *credentialService) attachPreview(ctx context.Context, c *models.Credential, file *multipart.FileHeader) {
	src, err := file.Open()
	if err != nil {
		logger.CtxWarn(ctx, "Preview skipped", "file", file.Filename, "error", err)
		return
	}
	defer src.Close()

	preview, err := s.previews.Preview(src)
	if err != nil {
		logger.CtxWarn(ctx, "Preview skipped", "file", file.Filename, "error", err)
		return
	}

	stored, err := storage.Upload(ctx, s.store, "credentials/"+c.LearnerID+"/previews", file.Filename, preview.Data, preview.ContentType)
	if err != nil {
		logger.CtxWarn(ctx, "Preview upload failed", "file", file.Filename, "error", err)
		return
	}
	c.File.PreviewPath = stored.Path
	c.File.PreviewURL = stored.URL
}

func (s *credentialService) deleteFiles(ctx context.Context, f models.CredentialFile) {
	if f.Path != "" {
		storage.SafeDelete(ctx, s.store, f.Path)
	}
	if f.PreviewPath != "" {
		storage.SafeDelete(ctx, s.store, f.PreviewPath)
	}
}

// deriveSkillsAndLevel fills skills and level from the request or, when the
// request omits them, from the AI adapter. Provenance is recorded either way.
func (s *credentialService) deriveSkillsAndLevel(ctx context.Context, c *models.Credential, skills []string, level int) {
	if names := dedupeSkills(skills); len(names) > 0 {
		c.Skills = make([]models.SkillTag, 0, len(names))
		for _, n := range names {
			c.Skills = append(c.Skills, models.SkillTag{Name: n, Category: "general"})
		}
		c.SkillsSource = models.SourceManual
	} else {
		text := strings.Join([]string{c.Title, c.Category, c.Description}, "\n")
		res := s.ai.ExtractSkills(ctx, text)
		c.Skills = res.Value
		c.SkillsSource = res.Source
	}

	if level > 0 {
		c.NSQFLevel = level
		c.LevelSource = models.SourceManual
		return
	}
	res := s.ai.PredictLevel(ctx, ai.CredentialData{
		Title:       c.Title,
		Type:        c.Type,
		Category:    c.Category,
		Description: c.Description,
		Skills:      c.SkillNames(),
	})
	c.NSQFLevel = res.Value
	c.LevelSource = res.Source
}

func (s *credentialService) requireRole(db *gorm.DB, userID string, role models.UserRole, field string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ValidationError(map[string]string{field: "user not found"})
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != role || !user.IsActive {
		return nil, apperrors.ValidationError(map[string]string{field: "must reference an active " + string(role)})
	}
	return user, nil
}

func (s *credentialService) Get(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string) (*models.Credential, error) {
	c, err := s.credentialRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	if !canView(c, userID, role) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return c, nil
}

func canView(c *models.Credential, userID string, role models.UserRole) bool {
	switch role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleLearner:
		return c.LearnerID == userID
	case models.UserRoleInstitution:
		return c.InstitutionID != nil && *c.InstitutionID == userID
	case models.UserRoleEmployer:
		return c.Status == models.VerificationVerified
	}
	return false
}

// canVerify reports whether the caller may verify or reject c.
func canVerify(c *models.Credential, userID string, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	return role == models.UserRoleInstitution && c.InstitutionID != nil && *c.InstitutionID == userID
}

func (s *credentialService) ListMine(ctx context.Context, db *gorm.DB, learnerID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error) {
	filter := credentialFilter(q)
	items, total, err := s.credentialRepo.ListByLearner(db, learnerID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func (s *credentialService) ListIssued(ctx context.Context, db *gorm.DB, institutionID string, q *dto.CredentialListQuery) (*dto.ListResponse[models.Credential], error) {
	filter := credentialFilter(q)
	items, total, err := s.credentialRepo.ListByInstitution(db, institutionID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func credentialFilter(q *dto.CredentialListQuery) repositories.CredentialFilter {
	return repositories.CredentialFilter{
		Status: q.Status,
		Type:   q.Type,
		Search: q.Search,
		Page:   q.ToPage(),
	}
}

func (s *credentialService) Update(ctx context.Context, db *gorm.DB, learnerID, id string, req *dto.UpdateCredentialRequest) (*models.Credential, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c, err := s.lockOwnPending(tx, learnerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		c.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.NSQFLevel != nil && *req.NSQFLevel > 0 {
		c.NSQFLevel = *req.NSQFLevel
		c.LevelSource = models.SourceManual
	}
	if req.Skills != nil {
		names := dedupeSkills(req.Skills)
		c.Skills = make([]models.SkillTag, 0, len(names))
		for _, n := range names {
			c.Skills = append(c.Skills, models.SkillTag{Name: n, Category: "general"})
		}
		c.SkillsSource = models.SourceManual
	}
	if req.IssueDate != nil {
		c.IssueDate = req.IssueDate
	}
	if req.ExpiryDate != nil {
		c.ExpiryDate = req.ExpiryDate
	}

	if err := s.credentialRepo.Update(tx, c); err != nil {
		return nil, handleCredentialError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *credentialService) Delete(ctx context.Context, db *gorm.DB, learnerID, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c, err := s.lockOwnPending(tx, learnerID, id)
	if err != nil {
		return err
	}
	if err := s.credentialRepo.Delete(tx, c.ID); err != nil {
		return handleCredentialError(err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.deleteFiles(ctx, c.File)
	return nil
}

func (s *credentialService) lockOwnPending(tx *gorm.DB, learnerID, id string) (*models.Credential, error) {
	c, err := s.credentialRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	if c.LearnerID != learnerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if c.Status != models.VerificationPending {
		return nil, apperrors.ErrCredentialNotPending
	}
	return c, nil
}

func (s *credentialService) Verify(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, id string) (*models.Credential, error) {
	c, err := s.credentialRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	if !canVerify(c, verifierID, role) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if c.Status == models.VerificationVerified {
		return nil, apperrors.ErrInvalidStatus("credential", "Credential is already verified")
	}

	if err := s.transition(db, c, models.VerificationVerified, verifierID, ""); err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, db, c, verifierID)
	return c, nil
}

func (s *credentialService) Reject(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, id, reason string) (*models.Credential, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.ValidationError(map[string]string{"reason": "is required"})
	}

	c, err := s.credentialRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	if !canVerify(c, verifierID, role) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.transition(db, c, models.VerificationRejected, verifierID, reason); err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, db, c, verifierID)
	return c, nil
}

// transition moves c from its current status to next and updates c in place.
func (s *credentialService) transition(db *gorm.DB, c *models.Credential, next models.VerificationStatus, actorID, reason string) error {
	if !c.Status.CanTransitionTo(next) {
		if next == models.VerificationExpired {
			return apperrors.ErrInvalidStatus("credential", "Credential is already expired")
		}
		return apperrors.ErrCredentialNotPending
	}

	now := s.clock.now()
	change := repositories.StatusChange{
		From:            c.Status,
		To:              next,
		RejectionReason: reason,
		At:              now,
	}
	if next != models.VerificationExpired {
		change.VerifiedBy = &actorID
	}
	if err := s.credentialRepo.ChangeStatus(db, c.ID, change); err != nil {
		return handleCredentialError(err)
	}

	c.Status = next
	c.UpdatedAt = now
	switch next {
	case models.VerificationVerified:
		c.VerifiedBy = change.VerifiedBy
		c.VerifiedAt = &now
	case models.VerificationRejected:
		c.VerifiedBy = change.VerifiedBy
		c.RejectionReason = reason
	}
	return nil
}

func (s *credentialService) BulkVerify(ctx context.Context, db *gorm.DB, verifierID string, role models.UserRole, ids []string) (*dto.BulkVerifyResponse, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := s.credentialRepo.FindByIDs(db, unique)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.Credential, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	resp := &dto.BulkVerifyResponse{Results: make([]dto.BulkVerifyItem, 0, len(unique))}
	for _, id := range unique {
		item := dto.BulkVerifyItem{CredentialID: id}
		c, ok := byID[id]
		switch {
		case !ok:
			item.Status = dto.BulkNotFound
		case !canVerify(c, verifierID, role):
			item.Found = true
			item.Status = dto.BulkForbidden
		case c.Status == models.VerificationVerified:
			item.Found = true
			item.Status = dto.BulkAlreadyVerified
		default:
			item.Found = true
			item.Status = s.bulkVerifyOne(ctx, db, c, verifierID)
			item.Verified = item.Status == dto.BulkVerified
		}

		if item.Verified {
			resp.Verified++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, item)
	}

	logger.CtxInfo(ctx, "Bulk verification finished",
		"requested", len(unique),
		"verified", resp.Verified,
		"failed", resp.Failed,
	)
	return resp, nil
}

func (s *credentialService) bulkVerifyOne(ctx context.Context, db *gorm.DB, c *models.Credential, verifierID string) string {
	err := s.transition(db, c, models.VerificationVerified, verifierID, "")
	switch {
	case err == nil:
		s.notifyDecision(ctx, db, c, verifierID)
		return dto.BulkVerified
	case errors.Is(err, apperrors.ErrCredentialNotPending):
		return dto.BulkNotPending
	default:
		logger.CtxWithError(ctx, "Bulk verification item failed", err, "credential_id", c.ID)
		return dto.BulkFailed
	}
}

func (s *credentialService) Expire(ctx context.Context, db *gorm.DB, id string) (*models.Credential, error) {
	c, err := s.credentialRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	if err := s.transition(db, c, models.VerificationExpired, "", ""); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Credential expired", "credential_id", c.ID)
	return c, nil
}

func (s *credentialService) notifyDecision(ctx context.Context, db *gorm.DB, c *models.Credential, verifierID string) {
	if s.notifier == nil {
		return
	}

	users, err := s.userRepo.FindByIDs(db, []string{c.LearnerID, verifierID})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load users for notification", err, "credential_id", c.ID)
		return
	}
	var learner, verifier *models.User
	for i := range users {
		switch users[i].ID {
		case c.LearnerID:
			learner = &users[i]
		case verifierID:
			verifier = &users[i]
		}
	}
	if learner == nil {
		return
	}
	issuer := "CredMatrix"
	if verifier != nil {
		issuer = verifier.DisplayName()
	}

	n := Notice{
		UserID: c.LearnerID,
		Data:   map[string]any{"credential_id": c.ID, "status": c.Status},
		Mail: &Mail{
			To: learner.Email,
			Data: email.TemplateData{
				"Name":   learner.DisplayName(),
				"Title":  c.Title,
				"Issuer": issuer,
				"Reason": c.RejectionReason,
			},
		},
	}
	if c.Status == models.VerificationVerified {
		n.Type = models.NotificationCredentialVerified
		n.Title = "Credential verified"
		n.Message = c.Title + " was verified by " + issuer
		n.Mail.Subject = "Your credential was verified"
		n.Mail.Template = email.TemplateCredentialVerified
	} else {
		n.Type = models.NotificationCredentialRejected
		n.Title = "Credential rejected"
		n.Message = c.Title + " was rejected"
		n.Mail.Subject = "Your credential was rejected"
		n.Mail.Template = email.TemplateCredentialRejected
	}
	s.notifier.Notify(ctx, db, n)
}

func (s *credentialService) VerifyByNumber(ctx context.Context, db *gorm.DB, number string) (*dto.PublicCredentialResponse, error) {
	c, err := s.credentialRepo.FindByNumber(db, number)
	if err != nil {
		return nil, handleCredentialError(err)
	}
	out, err := s.publicViews(db, []models.Credential{*c})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *credentialService) VerifyByFile(ctx context.Context, db *gorm.DB, file *multipart.FileHeader) ([]dto.PublicCredentialResponse, error) {
	if file == nil {
		return nil, apperrors.ErrFileRequired
	}
	if s.policy.MaxSize > 0 && file.Size > s.policy.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	hash, err := storage.HashReader(src)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	found, err := s.credentialRepo.FindByFileHash(db, hash)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(found) == 0 {
		return nil, apperrors.ErrCredentialNotFound
	}
	return s.publicViews(db, found)
}

func (s *credentialService) publicViews(db *gorm.DB, credentials []models.Credential) ([]dto.PublicCredentialResponse, error) {
	ids := make([]string, 0, len(credentials)*2)
	for _, c := range credentials {
		ids = append(ids, c.LearnerID)
		if c.InstitutionID != nil {
			ids = append(ids, *c.InstitutionID)
		}
	}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	names := make(map[string]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	out := make([]dto.PublicCredentialResponse, 0, len(credentials))
	for _, c := range credentials {
		view := dto.PublicCredentialResponse{
			ID:               c.ID,
			Title:            c.Title,
			Type:             c.Type,
			CredentialNumber: c.CredentialNumber,
			NSQFLevel:        c.NSQFLevel,
			Status:           c.Status,
			LearnerName:      names[c.LearnerID],
			IssueDate:        c.IssueDate,
			VerifiedAt:       c.VerifiedAt,
		}
		if c.InstitutionID != nil {
			view.Issuer = names[*c.InstitutionID]
		}
		out = append(out, view)
	}
	return out, nil
}

func handleCredentialError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCredentialNotFound):
		return apperrors.ErrCredentialNotFound
	case errors.Is(err, repositories.ErrCredentialNumberTaken):
		return apperrors.ErrCredentialNumberTaken
	case errors.Is(err, repositories.ErrCredentialStatusChanged):
		return apperrors.ErrCredentialNotPending
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.InternalError(err)
}
