// Package settings defines the persisted user settings as a plain struct
// with explicit JSON serialize/deserialize. The presentation layer reads
// and writes fields directly; storage is the db layer's concern.
package settings

import "encoding/json"

// LastSession is the persisted path prefix from the previous session. The
// setup screen restores it and revalidates each value against the freshly
// fetched tree.
type LastSession struct {
	Grade   string `json:"grade"`
	Level   string `json:"level"`
	Subject string `json:"subject"`
}

// Settings is the full persisted settings blob for one user.
type Settings struct {
	LastSession      LastSession `json:"last_session"`
	InfinitePractice bool        `json:"infinite"`
	AdvancedSetup    bool        `json:"advanced_setup"`
}

// Default returns the settings of a fresh user: nothing selected, both
// practice flags off.
func Default() Settings {
	return Settings{}
}

// Decode parses a stored blob, filling absent keys from Default so older
// blobs keep working as fields are added. Empty input yields Default.
func Decode(data []byte) (Settings, error) {
	s := Default()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), err
	}
	return s, nil
}

// Encode serializes the settings for storage.
func (s Settings) Encode() ([]byte, error) {
	return json.Marshal(s)
}
