package permission

// Resources and actions checked by RequirePermission.
const (
	ResourceUser        = "user"
	ResourceCoach       = "coach"
	ResourceIntegration = "integration"
	ResourceSchedule    = "schedule"
	ResourceBooking     = "booking"
	ResourceProposal    = "proposal"
	ResourceSession     = "session"
	ResourceGoal        = "goal"
	ResourceTicket      = "ticket"
	ResourcePlan        = "plan"
	ResourceBilling     = "billing"
	ResourceDispute     = "dispute"
	ResourceSync        = "sync"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// PermissionEnforcer answers whether a role may perform action on resource.
type PermissionEnforcer interface {
	Enforce(role string, resource string, action string) (bool, error)
	AddPolicy(role string, resource string, action string) error
	RemovePolicy(role string, resource string, action string) error
	GetPermissionsForRole(role string) ([][]string, error)
	LoadPolicy() error
}
