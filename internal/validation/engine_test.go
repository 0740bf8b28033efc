package validation

import (
	"reflect"
	"strings"
	"testing"
)

func testSchema(taken map[string]bool) *Schema {
	return NewSchema().
		Field("name",
			Required(RequiredFieldMissing),
			NewRule(NameTooLong, func(v string) bool { return len(strings.TrimSpace(v)) <= 5 }),
			NewRule(DuplicateName, func(v string) bool { return !taken[strings.TrimSpace(v)] }),
		).
		Field("nickname",
			NewRule(NameTooLong, func(v string) bool { return len(v) <= 3 }),
		)
}

func TestEvaluateReportsAllFailuresInOrder(t *testing.T) {
	engine := New(testSchema(map[string]bool{"toolong": true}))

	res := engine.Evaluate(Values{"name": "toolong"})
	want := []ErrorKind{NameTooLong, DuplicateName}
	if !reflect.DeepEqual(res["name"], want) {
		t.Errorf("Evaluate()[name] = %v, want %v", res["name"], want)
	}
	if len(res["nickname"]) != 0 {
		t.Errorf("Evaluate()[nickname] = %v, want no failures", res["nickname"])
	}
	if res.Valid() {
		t.Error("expected result to be invalid")
	}
}

func TestEvaluateEmptyShortCircuits(t *testing.T) {
	engine := New(testSchema(map[string]bool{"": true}))

	res := engine.Evaluate(Values{"name": "   "})
	if !reflect.DeepEqual(res["name"], []ErrorKind{RequiredFieldMissing}) {
		t.Errorf("Evaluate()[name] = %v, want only %v", res["name"], RequiredFieldMissing)
	}

	// Optional field: empty value reports nothing.
	if len(res["nickname"]) != 0 {
		t.Errorf("Evaluate()[nickname] = %v, want no failures", res["nickname"])
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	engine := New(testSchema(map[string]bool{"bob": true}))
	values := Values{"name": "bob", "nickname": "bobby"}

	first := engine.Evaluate(values)
	engine.Touch("name")
	second := engine.Evaluate(values)

	if !first.Equal(second) {
		t.Errorf("Evaluate() not idempotent: %v then %v", first, second)
	}
}

func TestTouchNeverChangesValidity(t *testing.T) {
	engine := New(testSchema(nil))

	for _, values := range []Values{
		{"name": ""},
		{"name": "ok"},
		{"name": "much too long"},
	} {
		before := engine.IsValid(values)
		engine.Touch("name")
		engine.TouchAll()
		if after := engine.IsValid(values); after != before {
			t.Errorf("IsValid(%v) changed after touch: %v -> %v", values, before, after)
		}
		engine.Reset()
		if after := engine.IsValid(values); after != before {
			t.Errorf("IsValid(%v) changed after reset: %v -> %v", values, before, after)
		}
	}
}

func TestVisibleOnlyForTouchedFields(t *testing.T) {
	engine := New(testSchema(nil))
	values := Values{"name": "", "nickname": "long"}

	if got := engine.Visible(values); len(got) != 0 {
		t.Fatalf("Visible() = %v, want nothing before touch", got)
	}

	engine.Touch("name")
	engine.Touch("name")
	engine.Touch("unknown")
	got := engine.Visible(values)
	if len(got) != 1 || got["name"] != RequiredFieldMissing {
		t.Errorf("Visible() = %v, want only name=%s", got, RequiredFieldMissing)
	}
	if engine.Touched("unknown") {
		t.Error("expected undeclared field to be ignored")
	}

	engine.TouchAll()
	got = engine.Visible(values)
	if got["nickname"] != NameTooLong {
		t.Errorf("Visible()[nickname] = %q, want %q", got["nickname"], NameTooLong)
	}

	engine.Reset()
	if got := engine.Visible(values); len(got) != 0 {
		t.Errorf("Visible() = %v, want nothing after reset", got)
	}
	if values["name"] != "" || values["nickname"] != "long" {
		t.Error("Reset must not touch values")
	}
}

func TestStatesFollowDeclarationOrder(t *testing.T) {
	engine := New(testSchema(nil))
	engine.Touch("nickname")

	states := engine.States(Values{"name": "ann", "nickname": "x"})
	if len(states) != 2 {
		t.Fatalf("len(States()) = %d, want 2", len(states))
	}
	if states[0].Field != "name" || states[1].Field != "nickname" {
		t.Errorf("States() order = %s,%s", states[0].Field, states[1].Field)
	}
	if states[0].Touched || !states[1].Touched {
		t.Errorf("unexpected touched flags: %+v", states)
	}
	if states[0].Value != "ann" {
		t.Errorf("States()[0].Value = %q, want %q", states[0].Value, "ann")
	}
}

func TestErrorKindMessage(t *testing.T) {
	if RequiredFieldMissing.Message() == "" {
		t.Error("expected a message for a known kind")
	}
	if got := ErrorKind("custom").Message(); got != "custom" {
		t.Errorf("Message() = %q, want fallback to kind", got)
	}
}

func TestValuesClone(t *testing.T) {
	orig := Values{"name": "a"}
	cp := orig.Clone()
	cp["name"] = "b"
	if orig["name"] != "a" {
		t.Error("Clone() must not share storage")
	}
	if got := Values(nil).Clone(); got == nil {
		t.Error("Clone() of nil must return an empty map")
	}
}
