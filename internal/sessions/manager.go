package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
	"gopkg.in/yaml.v3"
)

// Namespace is the name of the key-value file holding the session.
const Namespace = "account"

// Store persists the account session. Implementations give no atomicity
// guarantees beyond the underlying storage.
type Store interface {
	Load() (*models.Session, error)
	Save(session models.Session) error
	Clear() error
}

// accountFile is the on-disk layout. user_id is written by older builds
// and is only ever read as a fallback for account_id.
type accountFile struct {
	AccountID string `yaml:"account_id,omitempty"`
	UserID    string `yaml:"user_id,omitempty"`
	Signature string `yaml:"signature,omitempty"`
	Token     string `yaml:"token,omitempty"`
}

// FileStore keeps the session in <dir>/account.yaml. The mutex only
// serialises writers inside this process; two processes sharing the
// directory can still race.
type FileStore struct {
	lock sync.Mutex
	dir  string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Path() string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.yaml", Namespace))
}

func (s *FileStore) Load() (*models.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"path": s.Path(),
	}).Debugln("Loading account session")

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var stored accountFile
	if err := yaml.Unmarshal(data, &stored); err != nil {
		// A corrupt file is treated as signed out rather than fatal
		logrus.WithError(err).Errorf("Failed to parse session file %s, treating as signed out", s.Path())
		return nil, nil
	}

	accountID := stored.AccountID
	if len(accountID) == 0 {
		accountID = stored.UserID
	}

	if len(accountID) == 0 {
		return nil, nil
	}

	return &models.Session{
		AccountID: accountID,
		Signature: stored.Signature,
		Token:     stored.Token,
	}, nil
}

func (s *FileStore) Save(session models.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"path":      s.Path(),
		"accountId": session.AccountID,
		"hasToken":  len(session.Token) > 0,
	}).Debugln("Saving account session")

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Only allow read/write access to the owner
	file, err := os.OpenFile(s.Path(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()

	err = encoder.Encode(accountFile{
		AccountID: session.AccountID,
		Signature: session.Signature,
		Token:     session.Token,
	})
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes every key of the namespace. Clearing an empty store is
// not an error.
func (s *FileStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"path": s.Path(),
	}).Debugln("Clearing account session")

	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore is a Store for embedders that do not want anything on disk.
type MemoryStore struct {
	lock    sync.Mutex
	session *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*models.Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.session.IsSignedIn() {
		return nil, nil
	}
	session := *m.session
	return &session, nil
}

func (m *MemoryStore) Save(session models.Session) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.session = &session
	return nil
}

func (m *MemoryStore) Clear() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.session = nil
	return nil
}
