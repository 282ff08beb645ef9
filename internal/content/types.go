package content

import (
	"encoding/json"
	"sort"
)

// Tree is the full remotely-hosted content hierarchy:
// grade → level → subject → chapter → paragraph.
// It is built once at startup and treated as read-only afterwards.
type Tree map[string]map[string]map[string]Subject

// Subject maps chapter names to their paragraph sets.
type Subject map[string]Chapter

// Chapter maps paragraph names to paragraphs.
type Chapter map[string]Paragraph

// Paragraph is a set of question→answer pairs plus its reserved "_meta"
// entry. Paragraphs whose "_meta" is missing or not a JSON object are
// invalid and are removed from the tree by Filter.
type Paragraph struct {
	Entries map[string]string
	Meta    Meta

	hasMeta bool
}

// Meta is the reserved "_meta" block of a paragraph.
type Meta struct {
	Flip *bool `json:"flip"`
}

// Flip reports whether the second half of a deck built from this paragraph
// should test the reverse direction. Missing "_meta.flip" means true.
func (p Paragraph) Flip() bool {
	if p.Meta.Flip != nil {
		return *p.Meta.Flip
	}
	return true
}

// Valid reports whether the paragraph carried a well-formed "_meta" object.
func (p Paragraph) Valid() bool { return p.hasMeta }

func (p *Paragraph) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Entries = make(map[string]string, len(raw))
	for key, val := range raw {
		if key == "_meta" {
			// "_meta" must be a JSON object; anything else makes the
			// paragraph invalid, not the file.
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(val, &obj); err != nil || obj == nil {
				continue
			}
			if err := json.Unmarshal(val, &p.Meta); err != nil {
				continue
			}
			p.hasMeta = true
			continue
		}
		var answer string
		if err := json.Unmarshal(val, &answer); err != nil {
			return err
		}
		p.Entries[key] = answer
	}
	return nil
}

// Filter removes every paragraph that lacks a well-formed "_meta" object,
// so that everything downstream of the tree can assume valid paragraphs.
func (t Tree) Filter() {
	for _, levels := range t {
		for _, subjects := range levels {
			for _, subject := range subjects {
				for _, chapter := range subject {
					for name, para := range chapter {
						if !para.Valid() {
							delete(chapter, name)
						}
					}
				}
			}
		}
	}
}

// Grades returns the grade names, sorted.
func (t Tree) Grades() []string {
	return sortedKeys(t)
}

// Levels returns the level names under a grade, sorted.
func (t Tree) Levels(grade string) []string {
	return sortedKeys(t[grade])
}

// Subjects returns the subject names under a grade and level, sorted.
func (t Tree) Subjects(grade, level string) []string {
	if levels, ok := t[grade]; ok {
		return sortedKeys(levels[level])
	}
	return nil
}

// Chapters returns the chapter names under a subject, sorted.
func (t Tree) Chapters(grade, level, subject string) []string {
	sub, ok := t.Subject(grade, level, subject)
	if !ok {
		return nil
	}
	return sortedKeys(sub)
}

// Subject looks up one subject by its full path.
func (t Tree) Subject(grade, level, subject string) (Subject, bool) {
	levels, ok := t[grade]
	if !ok {
		return nil, false
	}
	subjects, ok := levels[level]
	if !ok {
		return nil, false
	}
	sub, ok := subjects[subject]
	return sub, ok
}

// Chapter looks up one chapter by its full path.
func (t Tree) Chapter(grade, level, subject, chapter string) (Chapter, bool) {
	sub, ok := t.Subject(grade, level, subject)
	if !ok {
		return nil, false
	}
	ch, ok := sub[chapter]
	return ch, ok
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
