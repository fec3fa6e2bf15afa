package ripple

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Form is the account creation validation graph. Text inputs are pushed
// in through the On*Changed methods; the UI observes the per-field streams
// and AllValid.
//
// Edits, debounce expiry and check results all run on the form's
// Scheduler, so every output sees one ordered sequence of changes. With a
// Loop scheduler, an edit takes effect once the loop reaches it.
//
//	username ──debounce──distinct──check──┐
//	password ──length─────────────────────┤
//	password ──character classes──────────┼── AllValid
//	password, confirmation ──match────────┘
type Form struct {
	username     *Signal[string]
	password     *Signal[string]
	confirmation *Signal[string]

	validator *AsyncValidator[string]
	bag       *Bag

	lengthOK     Stream[bool]
	charactersOK Stream[bool]
	matchOK      Stream[bool]
	allValid     Stream[bool]
}

// NewForm builds the validation graph around checker. Pipeline options
// wrap the checker exactly as for NewAsyncValidator.
func NewForm(checker Checker[string], opts ...Option[string]) *Form {
	f := &Form{
		username:     NewSignal(""),
		password:     NewSignal(""),
		confirmation: NewSignal(""),
		bag:          NewBag(),
	}
	f.validator = NewAsyncValidator[string](f.username, checker, opts...)

	f.lengthOK = Map[string, bool](f.password, HasMinLength)
	f.charactersOK = Map[string, bool](f.password, HasMixedCharacterClasses)
	f.matchOK = CombineLatest2[string, string, bool](f.password, f.confirmation, PasswordsMatch)
	f.allValid = CombineLatest4(
		f.validator.Results(),
		f.lengthOK,
		f.charactersOK,
		f.matchOK,
		func(username Availability, length, characters, match bool) bool {
			return username.OK() && length && characters && match
		},
	)
	return f
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the quiet period before the username is checked.
// Must be called before Start().
func (f *Form) Debounce(d time.Duration) *Form {
	f.validator.Debounce(d)
	return f
}

// Scheduler sets the scheduler for the username validator.
// Must be called before Start().
func (f *Form) Scheduler(s Scheduler) *Form {
	f.validator.Scheduler(s)
	return f
}

// Clock runs the username validator on an Immediate scheduler driven by clock.
// Must be called before Start().
func (f *Form) Clock(clock clockz.Clock) *Form {
	f.validator.Clock(clock)
	return f
}

// Timeout bounds each availability check. Must be called before Start().
func (f *Form) Timeout(d time.Duration) *Form {
	f.validator.Timeout(d)
	return f
}

// Metrics sets a metrics provider for the username validator.
// Must be called before Start().
func (f *Form) Metrics(provider MetricsProvider) *Form {
	f.validator.Metrics(provider)
	return f
}

// Start begins checking the username. It returns ErrAlreadyStarted if
// called more than once.
func (f *Form) Start(ctx context.Context) error {
	return f.validator.Start(ctx)
}

// Close stops the validator and releases every subscription added with Own,
// including those created by Bind.
func (f *Form) Close() {
	f.bag.Dispose()
	f.validator.Stop()
}

// Own ties subs to the form's lifetime; they are cancelled by Close.
func (f *Form) Own(subs ...*Subscription) {
	f.bag.Add(subs...)
}

// -----------------------------------------------------------------------------
// Inputs
// -----------------------------------------------------------------------------

// OnUsernameChanged records the username field's text.
func (f *Form) OnUsernameChanged(text string) {
	f.dispatch(func() { f.username.Set(text) })
}

// OnPasswordChanged records the password field's text.
func (f *Form) OnPasswordChanged(text string) {
	f.dispatch(func() { f.password.Set(text) })
}

// OnPasswordConfirmedChanged records the confirmation field's text.
func (f *Form) OnPasswordConfirmedChanged(text string) {
	f.dispatch(func() { f.confirmation.Set(text) })
}

// dispatch applies an edit on the validator's scheduler, the same logical
// thread that delivers debounce expiry and check results.
func (f *Form) dispatch(fn func()) {
	f.validator.sched.Dispatch(fn)
}

// -----------------------------------------------------------------------------
// Outputs
// -----------------------------------------------------------------------------

// UsernameAvailability streams each applied availability result.
func (f *Form) UsernameAvailability() Stream[Availability] {
	return f.validator.Results()
}

// UsernameValid streams whether the username is known to be available.
// AvailabilityUnknown maps to false.
func (f *Form) UsernameValid() Stream[bool] {
	return Map(f.validator.Results(), Availability.OK)
}

// Checking streams whether an availability check is in flight.
func (f *Form) Checking() Stream[bool] {
	return f.validator.Checking()
}

// PasswordLengthValid streams HasMinLength of the password.
func (f *Form) PasswordLengthValid() Stream[bool] {
	return f.lengthOK
}

// PasswordCharactersValid streams HasMixedCharacterClasses of the password.
func (f *Form) PasswordCharactersValid() Stream[bool] {
	return f.charactersOK
}

// PasswordsMatch streams whether the confirmation equals the password.
func (f *Form) PasswordsMatch() Stream[bool] {
	return f.matchOK
}

// AllValid streams the conjunction of every field. It first emits once a
// username availability result exists, then on every change of any field.
//
// AllValid gates the submit control; it does not require a non-empty
// username, since an empty username can be reported available. Submit
// applies that rule too and rejects what AllValid let through.
func (f *Form) AllValid() Stream[bool] {
	return f.allValid
}

// Validator exposes the username validator for state and error inspection.
func (f *Form) Validator() *AsyncValidator[string] {
	return f.validator
}
