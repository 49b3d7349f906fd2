package commentform

import (
	"context"
	"errors"
	"testing"
)

func complete() Fields {
	return Fields{PostID: "p1", Name: "A", Email: "a@b.com", Comment: "hi"}
}

func TestValidateComplete(t *testing.T) {
	if errs := Validate(complete()); errs != nil {
		t.Fatalf("Validate = %v, want nil", errs)
	}
}

func TestValidateMissingField(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Fields)
		field string
		msg   string
	}{
		{"name", func(f *Fields) { f.Name = "" }, FieldName, "The Name Field is required"},
		{"email", func(f *Fields) { f.Email = "" }, FieldEmail, "The Email Field is required"},
		{"comment", func(f *Fields) { f.Comment = "" }, FieldComment, "The Comment Field is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := complete()
			tt.edit(&f)
			errs := Validate(f)
			if len(errs) != 1 {
				t.Fatalf("Validate = %v, want exactly one message", errs)
			}
			if got := errs[tt.field]; got != tt.msg {
				t.Errorf("errs[%q] = %q, want %q", tt.field, got, tt.msg)
			}
		})
	}
}

func TestValidateEmailFormatNotChecked(t *testing.T) {
	f := complete()
	f.Email = "not-an-email"
	if errs := Validate(f); errs != nil {
		t.Errorf("Validate = %v, want nil", errs)
	}
}

func TestErrorsMessagesOrder(t *testing.T) {
	errs := Validate(Fields{PostID: "p1"})
	got := errs.Messages()
	want := []string{"The Name Field is required", "The Comment Field is required", "The Email Field is required"}
	if len(got) != len(want) {
		t.Fatalf("Messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := New("p1")
	calls := 0
	var gotID string
	err := f.Submit(context.Background(), complete(), func(ctx context.Context, v Fields) error {
		calls++
		gotID = v.PostID
		return nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if calls != 1 {
		t.Errorf("submit calls = %d, want 1", calls)
	}
	if gotID != "p1" {
		t.Errorf("post id = %q, want p1", gotID)
	}
	if f.State != Submitted {
		t.Errorf("State = %v, want submitted", f.State)
	}
}

func TestSubmitInvalidMakesNoCall(t *testing.T) {
	f := New("p1")
	values := complete()
	values.Email = ""
	calls := 0
	err := f.Submit(context.Background(), values, func(ctx context.Context, v Fields) error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Submit err = %v, want ErrInvalid", err)
	}
	if calls != 0 {
		t.Errorf("submit calls = %d, want 0", calls)
	}
	if f.State != Idle {
		t.Errorf("State = %v, want idle", f.State)
	}
	if _, ok := f.Errors[FieldEmail]; !ok || len(f.Errors) != 1 {
		t.Errorf("Errors = %v, want only email", f.Errors)
	}
}

func TestSubmitFailureThenRetry(t *testing.T) {
	f := New("p1")
	storeErr := errors.New("store down")
	err := f.Submit(context.Background(), complete(), func(ctx context.Context, v Fields) error {
		return storeErr
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("Submit err = %v, want store error", err)
	}
	if f.State != Failed || f.Failure != FailureMessage {
		t.Fatalf("State = %v, Failure = %q", f.State, f.Failure)
	}

	err = f.Submit(context.Background(), complete(), func(ctx context.Context, v Fields) error {
		return nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if f.State != Submitted || f.Failure != "" {
		t.Errorf("State = %v, Failure = %q after retry", f.State, f.Failure)
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	f := New("p1")
	f.State = Submitted
	calls := 0
	err := f.Submit(context.Background(), complete(), func(ctx context.Context, v Fields) error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrSubmitted) {
		t.Errorf("Submit err = %v, want ErrSubmitted", err)
	}
	if calls != 0 {
		t.Errorf("submit calls = %d, want 0", calls)
	}
}
