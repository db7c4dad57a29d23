package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type testForm struct {
	Name  string `validate:"required"`
	Price string `validate:"required"`
	Note  string
}

func TestGenericEchoValidator(t *testing.T) {
	v := &GenericEchoValidator{}

	if err := v.Validate(&testForm{Name: "Copo", Price: "1,00"}); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}

	err := v.Validate(&testForm{Price: ""})
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}

	fields := InvalidFields(err)
	if len(fields) != 2 || fields[0] != "name" || fields[1] != "price" {
		t.Errorf("unexpected invalid fields %v", fields)
	}
}

func TestInvalidFields_OtherErrors(t *testing.T) {
	if fields := InvalidFields(errors.New("boom")); fields != nil {
		t.Errorf("expected nil, got %v", fields)
	}
}
