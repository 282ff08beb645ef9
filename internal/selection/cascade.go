// Package selection models the dependent narrowing of the content tree:
// grade → level → subject → chapter → paragraphs. Choosing a value at one
// step resets every deeper step, and restored values from a previous
// session are revalidated against the freshly fetched tree.
package selection

import (
	"errors"
	"sort"

	"github.com/Flashcards-Program/Flashcards/internal/content"
)

// ErrUnknownOption is returned when a chosen value is not among the
// currently valid options for its step.
var ErrUnknownOption = errors.New("selection: value is not an available option")

// Step identifies one single-valued level of the cascade, ordered from
// broadest to narrowest. The paragraph level below StepChapter is
// multi-valued and handled by SelectParagraphs.
type Step int

const (
	StepGrade Step = iota
	StepLevel
	StepSubject
	StepChapter

	numSteps = 4
)

// None is the "not selected" sentinel value for every step.
const None = ""

// Cascade is the user's current path through the tree. The zero value is
// not usable; construct with New.
type Cascade struct {
	tree       content.Tree
	values     [numSteps]string
	paragraphs []string
}

func New(tree content.Tree) *Cascade {
	return &Cascade{tree: tree}
}

// Value returns the current selection at a step, or None.
func (c *Cascade) Value(step Step) string {
	return c.values[step]
}

// Options returns the valid values for a step given the selections above
// it, sorted. It is empty while any ancestor step is unselected.
func (c *Cascade) Options(step Step) []string {
	for s := StepGrade; s < step; s++ {
		if c.values[s] == None {
			return nil
		}
	}
	switch step {
	case StepGrade:
		return c.tree.Grades()
	case StepLevel:
		return c.tree.Levels(c.values[StepGrade])
	case StepSubject:
		return c.tree.Subjects(c.values[StepGrade], c.values[StepLevel])
	case StepChapter:
		return c.tree.Chapters(c.values[StepGrade], c.values[StepLevel], c.values[StepSubject])
	}
	return nil
}

// Choose sets the value at a step and resets every deeper step, including
// the paragraph selection. The value must be one of Options(step).
func (c *Cascade) Choose(step Step, value string) error {
	found := false
	for _, opt := range c.Options(step) {
		if opt == value {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownOption
	}
	c.values[step] = value
	c.resetBelow(step)
	return nil
}

// Clear unselects a step, resetting every deeper step. Choosing the
// placeholder option again lands here.
func (c *Cascade) Clear(step Step) {
	c.values[step] = None
	c.resetBelow(step)
}

func (c *Cascade) resetBelow(step Step) {
	for s := step + 1; s < numSteps; s++ {
		c.values[s] = None
	}
	c.paragraphs = nil
}

// ParagraphOptions returns the paragraph names of the selected chapter,
// sorted, or nil while no chapter is selected.
func (c *Cascade) ParagraphOptions() []string {
	chapter, ok := c.Chapter()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(chapter))
	for name := range chapter {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectParagraphs replaces the paragraph selection. Every name must be a
// paragraph of the selected chapter.
func (c *Cascade) SelectParagraphs(names []string) error {
	chapter, ok := c.Chapter()
	if !ok {
		return ErrUnknownOption
	}
	for _, name := range names {
		if _, ok := chapter[name]; !ok {
			return ErrUnknownOption
		}
	}
	c.paragraphs = append([]string(nil), names...)
	return nil
}

// SelectedParagraphs returns the current paragraph selection.
func (c *Cascade) SelectedParagraphs() []string {
	return c.paragraphs
}

// CanContinue reports whether the selection is complete enough to build a
// deck: a full path plus at least one paragraph.
func (c *Cascade) CanContinue() bool {
	return len(c.paragraphs) > 0
}

// Chapter returns the currently selected chapter.
func (c *Cascade) Chapter() (content.Chapter, bool) {
	for s := StepGrade; s < numSteps; s++ {
		if c.values[s] == None {
			return nil, false
		}
	}
	return c.tree.Chapter(c.values[StepGrade], c.values[StepLevel], c.values[StepSubject], c.values[StepChapter])
}

// Restore seeds the grade, level and subject from a previous session,
// revalidating each against the current tree. A value that no longer
// exists falls back to None and cascades the reset downward. Chapter and
// paragraph selections always start fresh.
func (c *Cascade) Restore(grade, level, subject string) {
	c.values = [numSteps]string{}
	c.paragraphs = nil

	if _, ok := c.tree[grade]; !ok {
		return
	}
	c.values[StepGrade] = grade

	if _, ok := c.tree[grade][level]; !ok {
		return
	}
	c.values[StepLevel] = level

	if _, ok := c.tree[grade][level][subject]; !ok {
		return
	}
	c.values[StepSubject] = subject
}
