package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validationf("ValidationError", "bad"), http.StatusBadRequest},
		{NotFoundErr("TrackNotFound", "no track"), http.StatusNotFound},
		{IncorrectPublishToken(), http.StatusBadRequest},
		{Wrap(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.StatusCode(); got != c.want {
			t.Errorf("StatusCode() for %s = %d, want %d", c.err.Name, got, c.want)
		}
	}
}

func TestToEnvelopeHidesCause(t *testing.T) {
	env := ToEnvelope(Wrap(errors.New("sensitive internal detail")))
	if env.Message == "sensitive internal detail" {
		t.Fatal("ToEnvelope leaked the underlying cause into the response")
	}
	if env.Name != "UnknownError" || env.StatusCode != 500 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestToEnvelopeWrapsPlainErrors(t *testing.T) {
	env := ToEnvelope(errors.New("plain"))
	if env.Name != "UnknownError" {
		t.Fatalf("expected plain errors to map to UnknownError, got %q", env.Name)
	}
}
