package delegate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// PermissionAuthenticateAccounts must be granted before the core
// authenticator is launched.
const PermissionAuthenticateAccounts = "org.teslasoft.core.permission.AUTHENTICATE_ACCOUNTS"

// PermissionGate answers whether a permission is granted and, if not,
// asks the user for it.
type PermissionGate interface {
	Granted(permission string) bool
	Request(ctx context.Context, permission string) (bool, error)
}

// PromptFunc asks the user to grant a permission.
type PromptFunc func(ctx context.Context, permission string) (bool, error)

type permissionFile struct {
	Granted []string `yaml:"granted"`
}

// FilePermissionGate remembers grants in <dir>/permissions.yaml so the user
// is only asked once.
type FilePermissionGate struct {
	lock   sync.Mutex
	dir    string
	prompt PromptFunc
}

func NewFilePermissionGate(dir string, prompt PromptFunc) *FilePermissionGate {
	return &FilePermissionGate{dir: dir, prompt: prompt}
}

func (g *FilePermissionGate) path() string {
	return filepath.Join(g.dir, "permissions.yaml")
}

func (g *FilePermissionGate) Granted(permission string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()

	granted, err := g.read()
	if err != nil {
		logrus.WithError(err).Warnln("Failed to read permission grants")
		return false
	}
	return slices.Contains(granted.Granted, permission)
}

// Request prompts the user and records a positive answer. Without a
// prompt every request is denied.
func (g *FilePermissionGate) Request(ctx context.Context, permission string) (bool, error) {
	if g.prompt == nil {
		return false, nil
	}

	allowed, err := g.prompt(ctx, permission)
	if err != nil {
		return false, fmt.Errorf("permission prompt failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"permission": permission,
		"granted":    allowed,
	}).Infoln("Permission request answered")

	if !allowed {
		return false, nil
	}

	return true, g.Grant(permission)
}

func (g *FilePermissionGate) Grant(permission string) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	granted, err := g.read()
	if err != nil {
		return err
	}
	if slices.Contains(granted.Granted, permission) {
		return nil
	}
	granted.Granted = append(granted.Granted, permission)
	return g.write(granted)
}

func (g *FilePermissionGate) Revoke(permission string) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	granted, err := g.read()
	if err != nil {
		return err
	}
	granted.Granted = slices.DeleteFunc(granted.Granted, func(p string) bool {
		return p == permission
	})
	return g.write(granted)
}

func (g *FilePermissionGate) read() (*permissionFile, error) {
	data, err := os.ReadFile(g.path())
	if err != nil {
		if os.IsNotExist(err) {
			return &permissionFile{}, nil
		}
		return nil, fmt.Errorf("failed to read permissions: %w", err)
	}

	var granted permissionFile
	if err := yaml.Unmarshal(data, &granted); err != nil {
		return nil, fmt.Errorf("failed to parse permissions: %w", err)
	}
	return &granted, nil
}

func (g *FilePermissionGate) write(granted *permissionFile) error {
	if err := os.MkdirAll(g.dir, 0700); err != nil {
		return fmt.Errorf("failed to create permission directory: %w", err)
	}
	data, err := yaml.Marshal(granted)
	if err != nil {
		return err
	}
	return os.WriteFile(g.path(), data, 0600)
}
