package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed           = errors.New("validation failed")
	ErrPasswordTooShort           = errors.New("password is too short")
	ErrUsernameRequired           = errors.New("username is required")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrRegistrationNotOpen        = errors.New("tournament registration is not open")
	ErrTournamentFull             = errors.New("tournament registration is full")
	ErrAlreadyRegistered          = errors.New("player is already registered for this tournament")
	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidRegWindow = errors.New("registration close date must be after open date and before start")
	ErrTournamentInvalidCapacity  = errors.New("tournament max participants must be positive")

	// Ошибки workflow результатов
	ErrResultInvalidOutcome      = errors.New("result must be one of win, loss or draw")
	ErrResultSubmitterNotInMatch = errors.New("submitter is not a player of this match")
	ErrResultReasonRequired      = errors.New("rejection reason is required")
	ErrResultAlreadyReviewed     = errors.New("match result has already been reviewed")
	ErrEvidenceRequired          = errors.New("evidence screenshot is required")
	ErrEvidenceNotImage          = errors.New("evidence must be an image")
	ErrEvidenceTooLarge          = errors.New("evidence image exceeds the size limit")
	ErrEvidenceUploadFailed      = errors.New("failed to upload evidence screenshot")

	// Ошибки конфликтов
	ErrEmailConflict          = errors.New("email address is already in use")
	ErrUsernameConflict       = errors.New("username is already in use")
	ErrTournamentSlugConflict = errors.New("tournament with this name already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrProfileNotFound    = errors.New("profile not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrResultNotFound     = errors.New("match result not found")
)
