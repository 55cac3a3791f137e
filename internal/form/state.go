// Package form holds the state of the cover letter form and the pure
// transitions between states. Every transition takes a State by value and
// returns the next one; the caller owns synchronisation.
package form

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/cover-letter/internal/types"
)

// DefaultCandidateName is the owner of the bundled CV.
const DefaultCandidateName = "Fatimah Albaik"

// CopyAcknowledgement is how long "Copied!" stays visible.
const CopyAcknowledgement = 2500 * time.Millisecond

// GenerateFallbackMessage is shown when generation fails without a message.
const GenerateFallbackMessage = "Failed to generate cover letter. Please check your connection and API key, then try again."

// UploadFallbackMessage is shown when extraction fails without a message.
const UploadFallbackMessage = "Failed to parse the file."

//go:embed default_cv.txt
var defaultCV string

// DefaultCV returns the bundled CV text used until a custom CV is chosen.
func DefaultCV() string {
	return defaultCV
}

var (
	// ErrBusy is returned when the same kind of action is already running.
	ErrBusy = errors.New("another action is in progress")
	// ErrNoLetter is returned by actions that need a generated letter.
	ErrNoLetter = errors.New("there is no cover letter yet")
	// ErrCustomCVDisabled is returned when a file is uploaded while the
	// bundled CV is selected.
	ErrCustomCVDisabled = errors.New(`enable "Use a different CV" before uploading a file`)
)

// Field names an editable text field.
type Field string

const (
	FieldCandidateName  Field = "candidate_name"
	FieldCompanyName    Field = "company_name"
	FieldCompanyAddress Field = "company_address"
	FieldHiringManager  Field = "hiring_manager"
	FieldJobDescription Field = "job_description"
)

// Fields are the free-text inputs of the form.
type Fields struct {
	CandidateName  string `json:"candidate_name"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	HiringManager  string `json:"hiring_manager"`
	JobDescription string `json:"job_description"`
}

// State is one snapshot of the form.
type State struct {
	Fields

	UseCustomCV  bool   `json:"use_custom_cv"`
	CustomCVText string `json:"custom_cv_text"`
	// FileName is the uploaded CV file; empty when none.
	FileName string `json:"file_name"`

	// Letter is the generated, user-editable letter.
	Letter string `json:"letter"`

	Parsing          bool      `json:"parsing"`
	Generating       bool      `json:"generating"`
	DownloadMenuOpen bool      `json:"download_menu_open"`
	CopiedUntil      time.Time `json:"-"`

	// Error is the last user-visible error message.
	Error string `json:"error,omitempty"`
}

// New returns the initial state: the bundled CV and its owner's name.
func New() State {
	return State{Fields: Fields{CandidateName: DefaultCandidateName}}
}

// CVText returns the CV sent to the model.
func (s State) CVText() string {
	if s.UseCustomCV {
		return s.CustomCVText
	}
	return defaultCV
}

// Request builds the generation request from the current fields.
func (s State) Request() types.GenerationRequest {
	return types.GenerationRequest{
		CandidateName:  s.CandidateName,
		CompanyName:    s.CompanyName,
		CompanyAddress: s.CompanyAddress,
		HiringManager:  s.HiringManager,
		JobDescription: s.JobDescription,
		CVText:         s.CVText(),
	}
}

// SetField updates one text field.
func (s State) SetField(field Field, value string) (State, error) {
	switch field {
	case FieldCandidateName:
		s.CandidateName = value
	case FieldCompanyName:
		s.CompanyName = value
	case FieldCompanyAddress:
		s.CompanyAddress = value
	case FieldHiringManager:
		s.HiringManager = value
	case FieldJobDescription:
		s.JobDescription = value
	default:
		return s, fmt.Errorf("unknown field %q", field)
	}
	return s, nil
}

// ToggleCustomCV switches between the bundled CV and an uploaded one.
// Switching on clears the name and any previous upload; switching off
// restores the bundled CV's owner.
func (s State) ToggleCustomCV(on bool) State {
	s.UseCustomCV = on
	if on {
		s.CandidateName = ""
		s.CustomCVText = ""
		s.FileName = ""
	} else {
		s.CandidateName = DefaultCandidateName
	}
	return s
}

// BeginUpload records a new upload and clears the previous CV text.
func (s State) BeginUpload(fileName string) (State, error) {
	if !s.UseCustomCV {
		return s, ErrCustomCVDisabled
	}
	if s.Parsing {
		return s, ErrBusy
	}
	s.Parsing = true
	s.Error = ""
	s.FileName = fileName
	s.CustomCVText = ""
	return s, nil
}

// UploadSucceeded stores the extracted CV text.
func (s State) UploadSucceeded(text string) State {
	s.Parsing = false
	s.CustomCVText = text
	return s
}

// UploadFailed reports err and forgets the file.
func (s State) UploadFailed(err error) State {
	s.Parsing = false
	s.FileName = ""
	s.Error = message(err, UploadFallbackMessage)
	return s
}

// BeginGenerate validates the form and marks generation as running. The
// previous letter and error are cleared. A validation failure is recorded
// in Error and returned as *types.ValidationError; the state stays idle.
func (s State) BeginGenerate() (State, types.GenerationRequest, error) {
	if s.Generating || s.Parsing {
		return s, types.GenerationRequest{}, ErrBusy
	}

	req := s.Request()
	if err := req.Validate(); err != nil {
		s.Error = types.MissingFieldsMessage
		return s, types.GenerationRequest{}, err
	}

	s.Generating = true
	s.Error = ""
	s.Letter = ""
	s.DownloadMenuOpen = false
	return s, req, nil
}

// GenerateSucceeded stores the drafted letter.
func (s State) GenerateSucceeded(letter string) State {
	s.Generating = false
	s.Letter = letter
	return s
}

// GenerateFailed reports err.
func (s State) GenerateFailed(err error) State {
	s.Generating = false
	s.Error = message(err, GenerateFallbackMessage)
	return s
}

// EditLetter replaces the letter with the user's edit.
func (s State) EditLetter(text string) State {
	s.Letter = text
	return s
}

// CanExport reports whether a letter is ready to copy or download.
func (s State) CanExport() error {
	if s.Generating {
		return ErrBusy
	}
	if strings.TrimSpace(s.Letter) == "" {
		return ErrNoLetter
	}
	return nil
}

// ToggleDownloadMenu opens or closes the format menu.
func (s State) ToggleDownloadMenu() State {
	s.DownloadMenuOpen = !s.DownloadMenuOpen
	return s
}

// CloseDownloadMenu closes the format menu.
func (s State) CloseDownloadMenu() State {
	s.DownloadMenuOpen = false
	return s
}

// MarkCopied shows the copy acknowledgement until now+CopyAcknowledgement.
func (s State) MarkCopied(now time.Time) (State, error) {
	if err := s.CanExport(); err != nil {
		return s, err
	}
	s.CopiedUntil = now.Add(CopyAcknowledgement)
	return s, nil
}

// Copied reports whether the copy acknowledgement is visible at now.
func (s State) Copied(now time.Time) bool {
	return now.Before(s.CopiedUntil)
}

// CopyAcknowledged clears an expired acknowledgement.
func (s State) CopyAcknowledged(now time.Time) State {
	if !s.Copied(now) {
		s.CopiedUntil = time.Time{}
	}
	return s
}

func message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
