package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// globalKey is the reserved state file key holding the GlobalSettings.
const globalKey = "global"

// FileStamp is a file path with its modification time in milliseconds since the epoch.
type FileStamp struct {
	Path    string `json:"fn"`
	ModTime int64  `json:"ts"`
}

// Record is what a task remembers about one output between runs.
type Record struct {
	Dst          string      `json:"dst"`
	Src          []string    `json:"src,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Options      any         `json:"options,omitempty"`
	Inputs       []FileStamp `json:"inputs,omitempty"`
	// Outputs lists files written next to Dst, such as source maps.
	Outputs []string `json:"outputs,omitempty"`
}

// SameSource reports whether r was built from exactly the sources in src.
func (r Record) SameSource(src ...string) bool {
	return slices.Equal(r.Src, src)
}

// TaskState is the persisted state of one task.
type TaskState struct {
	Records []Record `json:"records"`
}

// Index returns the records keyed by destination.
func (s *TaskState) Index() map[string]Record {
	if s == nil {
		return map[string]Record{}
	}
	idx := make(map[string]Record, len(s.Records))
	for _, r := range s.Records {
		idx[r.Dst] = r
	}
	return idx
}

// Add appends a record.
func (s *TaskState) Add(r Record) {
	s.Records = append(s.Records, r)
}

// Sort orders records by destination so the state file is stable between runs.
func (s *TaskState) Sort() {
	slices.SortFunc(s.Records, func(a, b Record) int {
		return strings.Compare(a.Dst, b.Dst)
	})
}

// StateFile is the persisted build state: the global settings plus one entry per task.
// It serializes to a flat object {"global": {...}, "<task>": {...}}.
type StateFile struct {
	Global *GlobalSettings
	Tasks  map[string]*TaskState
}

// NewStateFile returns an empty state file.
func NewStateFile() *StateFile {
	return &StateFile{Tasks: make(map[string]*TaskState)}
}

// MarshalJSON flattens the task entries next to the global settings.
func (f *StateFile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Tasks)+1)
	for name, ts := range f.Tasks {
		out[name] = ts
	}
	if f.Global != nil {
		out[globalKey] = f.Global
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat representation written by MarshalJSON.
func (f *StateFile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Global = nil
	f.Tasks = make(map[string]*TaskState, len(raw))
	for key, msg := range raw {
		if key == globalKey {
			var g GlobalSettings
			if err := json.Unmarshal(msg, &g); err != nil {
				return err
			}
			f.Global = &g
			continue
		}
		var ts TaskState
		if err := json.Unmarshal(msg, &ts); err != nil {
			return err
		}
		f.Tasks[key] = &ts
	}
	return nil
}
