package selection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Flashcards-Program/Flashcards/internal/content"
)

func testTree() content.Tree {
	para := content.Paragraph{Entries: map[string]string{"Q1": "A1"}}
	chapter := content.Chapter{"1.1": para, "1.2": para}
	return content.Tree{
		"Year 1": {
			"Standard": {
				"Biology": content.Subject{"Chapter 1": chapter},
				"History": content.Subject{"Chapter 1": chapter},
			},
			"Advanced": {
				"Biology": content.Subject{"Chapter 1": chapter},
			},
		},
		"Year 2": {
			"Standard": {
				"French": content.Subject{"Chapter 3": chapter},
			},
		},
	}
}

func choose(t *testing.T, c *Cascade, step Step, value string) {
	t.Helper()
	if err := c.Choose(step, value); err != nil {
		t.Fatalf("Choose(%d, %q): %v", step, value, err)
	}
}

func TestOptionsNarrowTopDown(t *testing.T) {
	c := New(testTree())

	if got := c.Options(StepGrade); !reflect.DeepEqual(got, []string{"Year 1", "Year 2"}) {
		t.Errorf("grade options = %v", got)
	}
	// Deeper steps have no options until their ancestors are chosen.
	if got := c.Options(StepLevel); got != nil {
		t.Errorf("level options before grade = %v, want none", got)
	}
	if got := c.Options(StepChapter); got != nil {
		t.Errorf("chapter options before subject = %v, want none", got)
	}

	choose(t, c, StepGrade, "Year 1")
	if got := c.Options(StepLevel); !reflect.DeepEqual(got, []string{"Advanced", "Standard"}) {
		t.Errorf("level options = %v", got)
	}

	choose(t, c, StepLevel, "Standard")
	if got := c.Options(StepSubject); !reflect.DeepEqual(got, []string{"Biology", "History"}) {
		t.Errorf("subject options = %v", got)
	}

	choose(t, c, StepSubject, "Biology")
	if got := c.Options(StepChapter); !reflect.DeepEqual(got, []string{"Chapter 1"}) {
		t.Errorf("chapter options = %v", got)
	}

	choose(t, c, StepChapter, "Chapter 1")
	if got := c.ParagraphOptions(); !reflect.DeepEqual(got, []string{"1.1", "1.2"}) {
		t.Errorf("paragraph options = %v", got)
	}
}

func TestChooseResetsDeeperSteps(t *testing.T) {
	c := New(testTree())
	choose(t, c, StepGrade, "Year 1")
	choose(t, c, StepLevel, "Standard")
	choose(t, c, StepSubject, "Biology")
	choose(t, c, StepChapter, "Chapter 1")
	if err := c.SelectParagraphs([]string{"1.1"}); err != nil {
		t.Fatalf("SelectParagraphs: %v", err)
	}

	choose(t, c, StepGrade, "Year 2")

	for step := StepLevel; step <= StepChapter; step++ {
		if got := c.Value(step); got != None {
			t.Errorf("step %d value = %q, want sentinel after grade change", step, got)
		}
	}
	if got := c.SelectedParagraphs(); len(got) != 0 {
		t.Errorf("paragraphs = %v, want cleared", got)
	}
	if c.CanContinue() {
		t.Error("CanContinue must be false after a reset")
	}
}

func TestClearResetsStepAndBelow(t *testing.T) {
	c := New(testTree())
	choose(t, c, StepGrade, "Year 1")
	choose(t, c, StepLevel, "Standard")
	choose(t, c, StepSubject, "Biology")
	choose(t, c, StepChapter, "Chapter 1")
	if err := c.SelectParagraphs([]string{"1.1"}); err != nil {
		t.Fatalf("SelectParagraphs: %v", err)
	}

	c.Clear(StepLevel)

	if got := c.Value(StepGrade); got != "Year 1" {
		t.Errorf("grade = %q, must survive a level clear", got)
	}
	for step := StepLevel; step <= StepChapter; step++ {
		if got := c.Value(step); got != None {
			t.Errorf("step %d value = %q, want sentinel after clear", step, got)
		}
	}
	if got := c.SelectedParagraphs(); len(got) != 0 {
		t.Errorf("paragraphs = %v, want cleared", got)
	}
}

func TestChooseRejectsUnknownValue(t *testing.T) {
	c := New(testTree())

	if err := c.Choose(StepGrade, "Year 9"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown grade: err = %v, want ErrUnknownOption", err)
	}
	// A valid value for a step whose parent is unselected is still invalid.
	if err := c.Choose(StepLevel, "Standard"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("level before grade: err = %v, want ErrUnknownOption", err)
	}
}

func TestSelectParagraphsGatesContinue(t *testing.T) {
	c := New(testTree())
	choose(t, c, StepGrade, "Year 1")
	choose(t, c, StepLevel, "Standard")
	choose(t, c, StepSubject, "Biology")
	choose(t, c, StepChapter, "Chapter 1")

	if c.CanContinue() {
		t.Error("CanContinue before paragraph selection")
	}
	if err := c.SelectParagraphs([]string{"1.1", "bogus"}); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("bogus paragraph: err = %v, want ErrUnknownOption", err)
	}
	if err := c.SelectParagraphs([]string{"1.1", "1.2"}); err != nil {
		t.Fatalf("SelectParagraphs: %v", err)
	}
	if !c.CanContinue() {
		t.Error("CanContinue after paragraph selection")
	}

	// An empty re-selection disables continuation again.
	if err := c.SelectParagraphs(nil); err != nil {
		t.Fatalf("SelectParagraphs(nil): %v", err)
	}
	if c.CanContinue() {
		t.Error("CanContinue after clearing paragraphs")
	}
}

func TestChapterLookup(t *testing.T) {
	c := New(testTree())
	if _, ok := c.Chapter(); ok {
		t.Error("Chapter should not resolve on an incomplete path")
	}

	choose(t, c, StepGrade, "Year 2")
	choose(t, c, StepLevel, "Standard")
	choose(t, c, StepSubject, "French")
	choose(t, c, StepChapter, "Chapter 3")

	chapter, ok := c.Chapter()
	if !ok {
		t.Fatal("Chapter did not resolve")
	}
	if len(chapter) != 2 {
		t.Errorf("chapter paragraphs = %d, want 2", len(chapter))
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name                  string
		grade, level, subject string
		want                  [3]string
	}{
		{"full path still valid", "Year 1", "Standard", "Biology", [3]string{"Year 1", "Standard", "Biology"}},
		{"subject gone", "Year 1", "Standard", "Physics", [3]string{"Year 1", "Standard", None}},
		{"level gone", "Year 1", "Vocational", "Biology", [3]string{"Year 1", None, None}},
		{"grade gone", "Year 9", "Standard", "Biology", [3]string{None, None, None}},
		{"nothing persisted", None, None, None, [3]string{None, None, None}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(testTree())
			c.Restore(tt.grade, tt.level, tt.subject)

			got := [3]string{c.Value(StepGrade), c.Value(StepLevel), c.Value(StepSubject)}
			if got != tt.want {
				t.Errorf("restored values = %v, want %v", got, tt.want)
			}
			if c.Value(StepChapter) != None {
				t.Errorf("chapter = %q, must always restore unselected", c.Value(StepChapter))
			}
		})
	}
}
