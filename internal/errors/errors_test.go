package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("L001")
	if err.Category != CategoryConfig {
		t.Errorf("category = %q, want %q", err.Category, CategoryConfig)
	}
	if err.Message != "Invalid pool configuration" {
		t.Errorf("message = %q", err.Message)
	}
	if got := err.Error(); got != "L001: Invalid pool configuration" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("L999")
	if err.Message != "Unknown error" {
		t.Errorf("message = %q, want Unknown error", err.Message)
	}
}

func TestErrorDetailAndWrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("L010").WithDetail("row 3").Wrap(cause)

	if !strings.Contains(err.Error(), "row 3") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, missing detail or cause", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find wrapped cause")
	}
	if !stderrors.Is(err, New("L010")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("L011")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "L010") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("L020")
	if FromError(orig, "L010") != orig {
		t.Error("FromError should return existing LumenError unchanged")
	}

	wrapped := FromError(stderrors.New("x"), "L010")
	if wrapped.Code != "L010" {
		t.Errorf("code = %q, want L010", wrapped.Code)
	}
}

func TestAggregate(t *testing.T) {
	if Aggregate(nil) != nil {
		t.Error("Aggregate(nil) should be nil")
	}
	if Aggregate([]error{nil, nil}) != nil {
		t.Error("Aggregate of nils should be nil")
	}

	single := stderrors.New("one")
	if Aggregate([]error{nil, single}) != single {
		t.Error("single error should be returned as-is")
	}

	a, b := stderrors.New("a"), stderrors.New("b")
	agg := Aggregate([]error{a, b})
	if !stderrors.Is(agg, a) || !stderrors.Is(agg, b) {
		t.Error("aggregate should wrap both errors")
	}
	if CategoryOf(agg) != CategoryDestructor {
		t.Errorf("category = %q, want destructor", CategoryOf(agg))
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("L040").WithDetail("expected <span>, found <div>").Format()
	if !strings.Contains(out, "ERROR L040:") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "expected <span>") {
		t.Errorf("missing detail in %q", out)
	}

	compact := New("L040").FormatCompact()
	if !strings.HasPrefix(compact, "[hydration]") {
		t.Errorf("compact = %q", compact)
	}

	js := New("L070").FormatJSON()
	if !strings.Contains(js, `"code":"L070"`) {
		t.Errorf("json = %q", js)
	}
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("L060"); !ok {
		t.Error("L060 should be registered")
	}
}
