package questionnaire

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"btoolme/internal/catalog"
	"btoolme/internal/recommend"
	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/telemetry"
)

// State is a questionnaire flow state.
type State string

const (
	StateLanding    State = "landing"
	StateCollecting State = "collecting"
	StateComplete   State = "complete"
	StateScored     State = "scored"
	StateErrored    State = "errored"
)

// GenericErrorMessage is shown when scoring fails; the detail is only logged.
const GenericErrorMessage = "Something went wrong while generating your recommendations. Please reload the page and try again."

var (
	ErrInvalidTransition = errors.New("invalid questionnaire transition")
	ErrUnknownField      = errors.New("unknown questionnaire field")
	ErrScoringFailed     = errors.New("scoring failed")
)

// Field names one answer of the questionnaire.
type Field string

const (
	FieldBusinessSize Field = "businessSize"
	FieldIndustry     Field = "industry"
	FieldNeeds        Field = "needs"
	FieldBudget       Field = "budget"
	FieldFeatures     Field = "features"
	FieldName         Field = "name"
	FieldEmail        Field = "email"
)

// Fields lists every field in the order the questionnaire asks them.
func Fields() []Field {
	return []Field{FieldBusinessSize, FieldIndustry, FieldNeeds, FieldBudget, FieldFeatures, FieldName, FieldEmail}
}

// Scorer maps a profile and catalog to ranked recommendations.
type Scorer func(recommend.Profile, []catalog.Tool) []recommend.Recommendation

// Flow collects answers for one session and scores them once complete.
// It is not safe for concurrent use; a session owns its flow.
type Flow struct {
	state   State
	answers Answers
	tools   []catalog.Tool
	score   Scorer
	recs    []recommend.Recommendation
	errMsg  string
}

// NewFlow starts a flow on the landing state. A nil scorer uses recommend.Recommend.
func NewFlow(tools []catalog.Tool, score Scorer) *Flow {
	if score == nil {
		score = recommend.Recommend
	}
	return &Flow{state: StateLanding, tools: tools, score: score}
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) Answers() Answers {
	return f.answers
}

// Recommendations returns the scored list; it is nil until the flow is Scored.
func (f *Flow) Recommendations() []recommend.Recommendation {
	return f.recs
}

// ErrorMessage is the user-facing message of an Errored flow.
func (f *Flow) ErrorMessage() string {
	return f.errMsg
}

// Start moves Landing -> Collecting.
func (f *Flow) Start() error {
	if f.state != StateLanding {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateCollecting
	return nil
}

// Answer records one field. An invalid value is rejected and the previous value kept.
func (f *Flow) Answer(field Field, values ...string) error {
	if f.state != StateCollecting {
		return fmt.Errorf("%w: answer in %s", ErrInvalidTransition, f.state)
	}
	next := f.answers
	switch field {
	case FieldBusinessSize:
		next.BusinessSize = first(values)
	case FieldIndustry:
		next.Industry = first(values)
	case FieldNeeds:
		next.Needs = append([]string(nil), values...)
	case FieldBudget:
		next.Budget = first(values)
	case FieldFeatures:
		next.Features = append([]string(nil), values...)
	case FieldName:
		next.Name = first(values)
	case FieldEmail:
		next.Email = first(values)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	next = next.Normalize()
	if err := validateField(next, field); err != nil {
		return err
	}
	f.answers = next
	return nil
}

// Fill replaces every answer at once without validating; Submit validates.
func (f *Flow) Fill(a Answers) error {
	if f.state != StateCollecting {
		return fmt.Errorf("%w: fill in %s", ErrInvalidTransition, f.state)
	}
	f.answers = a.Normalize()
	return nil
}

// Missing lists the required fields that are not yet valid.
func (f *Flow) Missing() []Field {
	if f.answers.Complete() {
		return nil
	}
	var out []Field
	for _, field := range Fields() {
		if validateField(f.answers, field) != nil {
			out = append(out, field)
		}
	}
	return out
}

// Submit moves Collecting -> Complete -> Scored once every required answer is valid.
// Incomplete answers leave the flow in Collecting.
func (f *Flow) Submit() ([]recommend.Recommendation, error) {
	if f.state != StateCollecting {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, f.state)
	}
	if err := f.answers.Validate(); err != nil {
		return nil, err
	}
	f.state = StateComplete
	return f.run()
}

// Reset discards everything and returns to Landing.
func (f *Flow) Reset() {
	f.state = StateLanding
	f.answers = Answers{}
	f.recs = nil
	f.errMsg = ""
}

func (f *Flow) run() (recs []recommend.Recommendation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("questionnaire.score_failed", map[string]any{
				"error": fmt.Sprint(rec),
			})
			f.state = StateErrored
			f.errMsg = GenericErrorMessage
			f.recs = nil
			recs = nil
			err = apperr.Unexpected(fmt.Errorf("%w: %v", ErrScoringFailed, rec))
		}
	}()

	out := f.score(f.answers.Profile(), f.tools)
	if out == nil {
		out = []recommend.Recommendation{}
	}
	f.recs = out
	f.state = StateScored
	return out, nil
}

func validateField(a Answers, field Field) error {
	sf, ok := structField(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	value := reflect.ValueOf(a).FieldByIndex(sf.Index).Interface()
	err := validate.Var(value, sf.Tag.Get("validate"))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Unexpected(err)
	}
	issues := make([]apperr.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.FieldIssue{Field: string(field), Issue: fe.Tag()})
	}
	return apperr.Validation("Invalid answer", issues)
}

func structField(field Field) (reflect.StructField, bool) {
	t := reflect.TypeOf(Answers{})
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if jsonName(sf) == string(field) {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
