package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.GetCell(x, y).Rune != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.GetCell(x, y).Rune, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'X', ColorRed)
	if cell := s.GetCell(5, 5); cell.Rune != 'X' || cell.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red 'X'", cell)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.GetCell(-1, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(0, 0, 6, 4, ColorDefault)

	expected := strings.Join([]string{
		"┌────┐",
		"│    │",
		"│    │",
		"└────┘",
	}, "\n")
	if s.String() != expected {
		t.Errorf("DrawBox output:\n%s\nexpected:\n%s", s.String(), expected)
	}
}

func TestScreenTextAndResize(t *testing.T) {
	s := NewScreen(11, 3)
	s.DrawTextCentered(1, "hello")
	if row := s.Row(1); row != "   hello   " {
		t.Errorf("Row(1) = %q", row)
	}

	s.Resize(4, 2)
	if s.Width() != 4 || s.Height() != 2 {
		t.Errorf("Resize = %dx%d, expected 4x2", s.Width(), s.Height())
	}
	if s.Row(0) != "    " {
		t.Errorf("Resize should clear content, got %q", s.Row(0))
	}
	if s.Row(9) != "    " {
		t.Error("Row out of range should be blank")
	}
}
