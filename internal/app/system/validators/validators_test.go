package validators

import (
	"strings"
	"testing"
)

type sample struct {
	Name string `validate:"required"`
	Size int    `validate:"gte=0,lte=100"`
}

func TestStruct(t *testing.T) {
	if err := Struct(sample{Name: "ok", Size: 10}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	err := Struct(sample{Size: 101})
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Name: required") || !strings.Contains(msg, "Size: lte=100") {
		t.Errorf("unexpected message %q", msg)
	}
}
