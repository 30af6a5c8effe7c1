package order

import (
	"errors"
	"reflect"
	"testing"
)

func TestNew_Identity(t *testing.T) {
	a := New(3)
	if got := a.Items(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestAppend_KeepsExistingOrder(t *testing.T) {
	a := New(3)
	if err := a.Move(2, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	a.Append(2)

	want := []int{3, 1, 2, 4, 5}
	if got := a.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAppend_AfterRemoveDoesNotReuseNumbers(t *testing.T) {
	a := New(3)
	a.Remove(3)
	a.Append(1)

	want := []int{1, 2, 4}
	if got := a.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRemove_UnknownIsNoop(t *testing.T) {
	a := New(2)
	a.Remove(7)
	if a.Len() != 2 {
		t.Errorf("expected 2 items, got %d", a.Len())
	}
}

func TestRemove_AllLeavesEmpty(t *testing.T) {
	a := New(2)
	a.Remove(1)
	a.Remove(2)
	if !a.Empty() {
		t.Errorf("expected empty arrangement, got %v", a.Items())
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		from, to int
		want     []int
	}{
		{0, 3, []int{2, 3, 4, 1}},
		{3, 0, []int{4, 1, 2, 3}},
		{1, 2, []int{1, 3, 2, 4}},
		{2, 2, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		a := New(4)
		if err := a.Move(tt.from, tt.to); err != nil {
			t.Fatalf("move(%d,%d): %v", tt.from, tt.to, err)
		}
		if got := a.Items(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("move(%d,%d): expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestMove_OutOfRange(t *testing.T) {
	a := New(2)
	if err := a.Move(0, 5); err == nil {
		t.Error("expected error for out-of-range move")
	}
}

func TestReset(t *testing.T) {
	a := New(4)
	a.Reset()
	a.Append(1)
	if got := a.Items(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("expected numbering to restart, got %v", got)
	}
}

func TestParseAndString(t *testing.T) {
	a, err := Parse(" 3, 1,2 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != "3,1,2" {
		t.Errorf("expected %q, got %q", "3,1,2", a.String())
	}
	if a.Allocated() != 3 {
		t.Errorf("expected allocated 3, got %d", a.Allocated())
	}
}

func TestParse_Empty(t *testing.T) {
	a, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Empty() {
		t.Error("expected empty arrangement")
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"1,x", "0", "-2", "1,,2"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestValidate(t *testing.T) {
	a := FromSlice([]int{1, 4})
	if err := a.Validate(4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := a.Validate(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange when item exceeds max, got %v", err)
	}
}

func TestIsIdentity(t *testing.T) {
	if !New(3).IsIdentity(3) {
		t.Error("New(3) should be the identity")
	}
	if New(3).IsIdentity(4) {
		t.Error("length mismatch is not the identity")
	}
	if FromSlice([]int{2, 1, 3}).IsIdentity(3) {
		t.Error("reordered arrangement is not the identity")
	}
}
