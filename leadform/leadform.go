// ABOUTME: Multi-step lead capture form controller
// ABOUTME: Walks service, property, urgency, address, [photo], contact steps and submits a Lead
package leadform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/roofdesk/models"
)

// ResetDelay is how long the confirmation stays up before the form resets.
const ResetDelay = 5 * time.Second

// submitTimeout bounds the background POST to the remote endpoint.
const submitTimeout = 10 * time.Second

var (
	ErrWrongStep        = errors.New("action not valid on the current step")
	ErrAlreadySubmitted = errors.New("form already submitted")
)

// ValidationError reports a required field left empty.
type ValidationError struct {
	Step  int
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s is required", e.Step, e.Field)
}

// Step identifies a form screen.
type Step int

const (
	StepService Step = iota + 1
	StepPropertyType
	StepUrgency
	StepAddress
	StepPhoto
	StepContact
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "service"
	case StepPropertyType:
		return "property type"
	case StepUrgency:
		return "urgency"
	case StepAddress:
		return "address"
	case StepPhoto:
		return "photo"
	case StepContact:
		return "contact"
	}
	return "unknown"
}

// LeadAdder receives the submitted lead. *store.LeadStore satisfies it.
type LeadAdder interface {
	Add(lead models.Lead) models.Lead
}

// Notifier shows toast messages. *store.UIStore satisfies it.
type Notifier interface {
	Notify(kind, message string)
}

// Submitter delivers a lead to the remote backend. *apiclient.Client satisfies it.
type Submitter interface {
	SubmitLead(ctx context.Context, lead models.Lead) error
}

// Scheduler runs f after d. It returns a function that cancels the run.
type Scheduler func(d time.Duration, f func()) (cancel func())

func afterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Draft accumulates answers across steps.
type Draft struct {
	Service      string `json:"service"`
	PropertyType string `json:"propertyType"`
	Urgency      string `json:"urgency"`
	Address      string `json:"address"`
	ZipCode      string `json:"zipCode"`
	Photo        string `json:"photo,omitempty"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Message      string `json:"message,omitempty"`
}

// Form is the step sequencer. It is safe for concurrent use.
type Form struct {
	mu         sync.Mutex
	step       int
	draft      Draft
	complete   bool
	submitted  models.Lead
	photoStep  bool
	leads      LeadAdder
	notifier   Notifier
	submitter  Submitter
	schedule   Scheduler
	cancelTick func()
	onClose    func()
	source     string
	inflight   sync.WaitGroup
}

type Option func(*Form)

// WithPhotoStep enables the optional photo upload screen (6-step form).
func WithPhotoStep() Option {
	return func(f *Form) { f.photoStep = true }
}

func WithNotifier(n Notifier) Option {
	return func(f *Form) { f.notifier = n }
}

// WithSubmitter enables the best-effort remote POST on submit.
func WithSubmitter(s Submitter) Option {
	return func(f *Form) { f.submitter = s }
}

func WithScheduler(s Scheduler) Option {
	return func(f *Form) { f.schedule = s }
}

// OnClose is called after the post-submit reset.
func OnClose(fn func()) Option {
	return func(f *Form) { f.onClose = fn }
}

// WithSource overrides the lead source recorded on submit.
func WithSource(source string) Option {
	return func(f *Form) { f.source = source }
}

func New(leads LeadAdder, opts ...Option) *Form {
	f := &Form{
		step:     1,
		leads:    leads,
		schedule: afterFunc,
		source:   models.SourceWebsite,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Steps returns the number of screens: 5, or 6 with the photo step.
func (f *Form) Steps() int {
	if f.photoStep {
		return 6
	}
	return 5
}

// Step returns the current 1-based step number.
func (f *Form) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Current returns the screen shown at the current step.
func (f *Form) Current() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kindLocked(f.step)
}

func (f *Form) kindLocked(n int) Step {
	if n <= int(StepAddress) {
		return Step(n)
	}
	if f.photoStep && n == int(StepPhoto) {
		return StepPhoto
	}
	return StepContact
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) IsComplete() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.complete
}

// Submitted returns the lead stored by the last successful submit.
func (f *Form) Submitted() (models.Lead, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted, f.complete
}

func (f *Form) SelectService(value string) error {
	return f.selectOption(StepService, func(d *Draft) { d.Service = value })
}

func (f *Form) SelectPropertyType(value string) error {
	return f.selectOption(StepPropertyType, func(d *Draft) { d.PropertyType = value })
}

func (f *Form) SelectUrgency(value string) error {
	return f.selectOption(StepUrgency, func(d *Draft) { d.Urgency = value })
}

// selectOption sets a field and advances without validating the value.
func (f *Form) selectOption(want Step, set func(*Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expectLocked(want); err != nil {
		return err
	}
	set(&f.draft)
	f.step++
	return nil
}

// SetAddress records the address answers without advancing.
func (f *Form) SetAddress(address, zip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Address = address
	f.draft.ZipCode = zip
}

// NextFromAddress advances past the address step when both fields are set.
func (f *Form) NextFromAddress() error {
	f.mu.Lock()
	if err := f.expectLocked(StepAddress); err != nil {
		f.mu.Unlock()
		return err
	}

	var verr *ValidationError
	switch {
	case strings.TrimSpace(f.draft.Address) == "":
		verr = &ValidationError{Step: f.step, Field: "address"}
	case strings.TrimSpace(f.draft.ZipCode) == "":
		verr = &ValidationError{Step: f.step, Field: "zip code"}
	}
	if verr != nil {
		f.mu.Unlock()
		f.notify(models.ToastError, "Please enter your address and zip code")
		return verr
	}

	f.step++
	f.mu.Unlock()
	return nil
}

// AttachPhoto stores a photo reference and advances (6-step form only).
func (f *Form) AttachPhoto(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expectLocked(StepPhoto); err != nil {
		return err
	}
	f.draft.Photo = ref
	f.step++
	return nil
}

// SkipPhoto advances past the optional photo step.
func (f *Form) SkipPhoto() error {
	return f.AttachPhoto("")
}

// SetContact records the contact answers without submitting.
func (f *Form) SetContact(name, phone, email, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Name = name
	f.draft.Phone = phone
	f.draft.Email = email
	f.draft.Message = message
}

// Back returns to the previous step, keeping every answer.
func (f *Form) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.complete {
		return
	}
	if f.step > 1 {
		f.step--
	}
}

// Submit validates the contact step, stores the lead and schedules the reset.
// The remote POST runs in the background; its failure is only logged.
func (f *Form) Submit(ctx context.Context) (models.Lead, error) {
	f.mu.Lock()
	if f.complete {
		f.mu.Unlock()
		return models.Lead{}, ErrAlreadySubmitted
	}
	if err := f.expectLocked(StepContact); err != nil {
		f.mu.Unlock()
		return models.Lead{}, err
	}

	d := f.draft
	var verr *ValidationError
	switch {
	case strings.TrimSpace(d.Name) == "":
		verr = &ValidationError{Step: f.step, Field: "name"}
	case strings.TrimSpace(d.Phone) == "":
		verr = &ValidationError{Step: f.step, Field: "phone"}
	case strings.TrimSpace(d.Email) == "":
		verr = &ValidationError{Step: f.step, Field: "email"}
	}
	if verr != nil {
		f.mu.Unlock()
		f.notify(models.ToastError, "Please fill in your name, phone and email")
		return models.Lead{}, verr
	}

	first, last := splitName(d.Name)
	lead := f.leads.Add(models.Lead{
		FirstName:    first,
		LastName:     last,
		Email:        strings.TrimSpace(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		Service:      d.Service,
		PropertyType: d.PropertyType,
		Urgency:      d.Urgency,
		Address:      strings.TrimSpace(d.Address),
		ZipCode:      strings.TrimSpace(d.ZipCode),
		Message:      d.Message,
		Status:       models.StatusNew,
		Source:       f.source,
		Photo:        d.Photo,
	})

	f.complete = true
	f.submitted = lead
	f.mu.Unlock()

	cancel := f.schedule(ResetDelay, f.Reset)
	f.mu.Lock()
	if f.complete && f.submitted.ID == lead.ID {
		f.cancelTick = cancel
	}
	f.mu.Unlock()

	f.postRemote(ctx, lead)
	f.notify(models.ToastSuccess, "Thanks! We'll be in touch shortly.")
	return lead, nil
}

// Reset clears every answer and returns to step 1.
func (f *Form) Reset() {
	f.mu.Lock()
	if f.cancelTick != nil {
		f.cancelTick()
		f.cancelTick = nil
	}
	f.step = 1
	f.draft = Draft{}
	f.complete = false
	f.submitted = models.Lead{}
	onClose := f.onClose
	f.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Wait blocks until background submissions finish.
func (f *Form) Wait() {
	f.inflight.Wait()
}

func (f *Form) postRemote(ctx context.Context, lead models.Lead) {
	if f.submitter == nil {
		return
	}

	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submitTimeout)
		defer cancel()

		if err := f.submitter.SubmitLead(ctx, lead); err != nil {
			log.Printf("warning: remote lead submit failed for %s: %v", lead.ID, err)
		}
	}()
}

func (f *Form) expectLocked(want Step) error {
	if f.complete {
		return ErrAlreadySubmitted
	}
	if got := f.kindLocked(f.step); got != want {
		return fmt.Errorf("%w: on %s, not %s", ErrWrongStep, got, want)
	}
	return nil
}

func (f *Form) notify(kind, message string) {
	if f.notifier != nil {
		f.notifier.Notify(kind, message)
	}
}

// splitName splits "Jane Q Doe" into "Jane" and "Q Doe".
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
