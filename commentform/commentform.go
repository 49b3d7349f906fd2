// Package commentform models the reader comment form: required-field
// validation and the submission state machine behind the form view.
package commentform

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Form field names, shared by the HTML form, the JSON body and Errors keys.
const (
	FieldPostID  = "_id"
	FieldName    = "name"
	FieldEmail   = "email"
	FieldComment = "comment"
)

// FailureMessage is shown after a submission the store rejected.
const FailureMessage = "Something went wrong submitting your comment. Please try again."

var messages = map[string]string{
	FieldPostID:  "The post reference is missing",
	FieldName:    "The Name Field is required",
	FieldEmail:   "The Email Field is required",
	FieldComment: "The Comment Field is required",
}

// display order of inline messages
var messageOrder = []string{FieldPostID, FieldName, FieldComment, FieldEmail}

var (
	ErrInvalid   = errors.New("commentform: required fields missing")
	ErrSubmitted = errors.New("commentform: already submitted")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// Fields are the values a reader submits.
type Fields struct {
	PostID  string `form:"_id" json:"_id" validate:"required"`
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required"`
	Comment string `form:"comment" json:"comment" validate:"required"`
}

// Errors maps a field name to its inline message.
type Errors map[string]string

// Messages returns the messages in display order.
func (e Errors) Messages() []string {
	var out []string
	for _, field := range messageOrder {
		if msg, ok := e[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// Validate checks presence of every field. Email format is not checked.
func Validate(f Fields) Errors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = messages[fe.Field()]
	}
	return out
}

// State is where a form is in its submission lifecycle.
type State int

const (
	Idle State = iota
	Submitting
	Submitted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmitFunc persists a validated submission.
type SubmitFunc func(ctx context.Context, f Fields) error

// Form is one reader's comment form for one post.
//
// Transitions: Idle -> Submitting -> Submitted | Failed, and Failed ->
// Submitting on retry. Submitted is terminal. A submission that fails
// validation leaves the state unchanged and never reaches the SubmitFunc.
type Form struct {
	PostID  string
	State   State
	Values  Fields
	Errors  Errors
	Failure string
}

// New returns an idle form for the post with id postID.
func New(postID string) *Form {
	return &Form{
		PostID: postID,
		State:  Idle,
		Values: Fields{PostID: postID},
	}
}

// Submit validates values and, when they are complete, calls submit once.
func (f *Form) Submit(ctx context.Context, values Fields, submit SubmitFunc) error {
	switch f.State {
	case Submitted:
		return ErrSubmitted
	}
	f.Values = values
	f.Errors = Validate(values)
	if len(f.Errors) > 0 {
		return ErrInvalid
	}
	f.State = Submitting
	f.Failure = ""
	if err := submit(ctx, values); err != nil {
		f.State = Failed
		f.Failure = FailureMessage
		return err
	}
	f.State = Submitted
	return nil
}
