package calllog

import (
	"encoding/json"
	"os"
)

// Attempt is one dialed call as it is stored in the log file. CallSID and
// Error stay pointers so absent values serialize as null, which keeps the
// file readable by earlier versions of the app.
type Attempt struct {
	Number    string  `json:"number"`
	Status    string  `json:"status"`
	Success   bool    `json:"success"`
	Timestamp string  `json:"timestamp"`
	CallSID   *string `json:"call_sid"`
	Error     *string `json:"error"`
}

type Store interface {
	Load() []Attempt
	Append(Attempt) error
	RewriteErrors(clean func(string) string) (int, error)
}

// FileStore keeps the whole history as one pretty-printed JSON array.
// Writes are not locked against concurrent processes; the app runs as a
// single instance and appends are rare enough that last-write-wins is
// acceptable.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns every recorded attempt in insertion order. A missing or
// unreadable file is treated as an empty history.
func (s *FileStore) Load() []Attempt {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []Attempt{}
	}
	var attempts []Attempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		return []Attempt{}
	}
	if attempts == nil {
		attempts = []Attempt{}
	}
	return attempts
}

func (s *FileStore) Append(a Attempt) error {
	attempts := append(s.Load(), a)
	return s.write(attempts)
}

// RewriteErrors runs clean over every stored error message and persists the
// result. It returns the total number of log entries.
func (s *FileStore) RewriteErrors(clean func(string) string) (int, error) {
	attempts := s.Load()
	for i := range attempts {
		if attempts[i].Error != nil {
			cleaned := clean(*attempts[i].Error)
			attempts[i].Error = &cleaned
		}
	}
	if err := s.write(attempts); err != nil {
		return 0, err
	}
	return len(attempts), nil
}

func (s *FileStore) write(attempts []Attempt) error {
	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
