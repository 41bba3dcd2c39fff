package permission

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/permission"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

//go:embed rbac_model.conf
var rbacModel string

//go:embed policies.yaml
var defaultPolicies []byte

var _ permission.PermissionEnforcer = (*Enforcer)(nil)

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer creates a casbin enforcer whose policies live in the
// casbin_rule table and seeds the built-in role policies.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	e := &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}
	if err := e.seed(defaultPolicies); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Enforcer) Enforce(role string, resource string, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

func (e *Enforcer) AddPolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to add policy", "error", err)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

func (e *Enforcer) GetPermissionsForRole(role string) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	permissions, err := e.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for role: %w", err)
	}
	return permissions, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}

type policyFile struct {
	Inherits map[string][]string            `yaml:"inherits"`
	Policies map[string]map[string][]string `yaml:"policies"`
}

// seed adds the policies from a YAML document. Existing rules are kept, so
// seeding is idempotent and never drops rules added at runtime.
func (e *Enforcer) seed(doc []byte) error {
	var pf policyFile
	if err := yaml.Unmarshal(doc, &pf); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, role := range sortedKeys(pf.Inherits) {
		for _, parent := range pf.Inherits[role] {
			ok, err := e.enforcer.AddGroupingPolicy(role, parent)
			if err != nil {
				return fmt.Errorf("failed to add role inheritance [%s, %s]: %w", role, parent, err)
			}
			if ok {
				added++
			}
		}
	}

	for _, role := range sortedKeys(pf.Policies) {
		resources := pf.Policies[role]
		for _, resource := range sortedKeys(resources) {
			for _, action := range resources[resource] {
				ok, err := e.enforcer.AddPolicy(role, resource, action)
				if err != nil {
					e.logger.Errorw("failed to add permission policy",
						"error", err,
						"role", role,
						"resource", resource,
						"action", action)
					return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", role, resource, action, err)
				}
				if ok {
					added++
				}
			}
		}
	}

	if added > 0 {
		e.logger.Infow("permission policies seeded", "added", added)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
