package workflow

// Action identifies a workflow operation attempted against a request
type Action string

const (
	ActionCreate           Action = "CREATE"
	ActionReview           Action = "REVIEW"
	ActionSubmitForCEO     Action = "SUBMIT_FOR_CEO"
	ActionFinalApprove     Action = "FINAL_APPROVE"
	ActionStartProcurement Action = "START_PROCUREMENT"
	ActionConfirmShipment  Action = "CONFIRM_SHIPMENT"
	ActionConfirmArrival   Action = "CONFIRM_ARRIVAL"
	ActionRegisterItems    Action = "REGISTER_ITEMS"
	ActionCancel           Action = "CANCEL"
	ActionFollowUp         Action = "FOLLOW_UP"
	ActionPrioritize       Action = "PRIORITIZE"
	ActionRequestProgress  Action = "REQUEST_PROGRESS_UPDATE"
	ActionAckProgress      Action = "ACK_PROGRESS_UPDATE"
)

func (a Action) String() string {
	return string(a)
}

// Role is the actor role carried in the JWT and checked by the policy table
type Role string

const (
	RoleStaff         Role = "Staff"
	RoleLeader        Role = "Leader"
	RoleAdminLogistik Role = "Admin Logistik"
	RoleAdminPurchase Role = "Admin Purchase"
	RoleSuperAdmin    Role = "Super Admin"
)

var validRoles = map[Role]bool{
	RoleStaff:         true,
	RoleLeader:        true,
	RoleAdminLogistik: true,
	RoleAdminPurchase: true,
	RoleSuperAdmin:    true,
}

// IsValid returns true if the role is recognized
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsApprover returns true for roles that participate in the approval chain
func (r Role) IsApprover() bool {
	return r == RoleAdminLogistik || r == RoleAdminPurchase || r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}

// approverRoles is the "any approver" allow-list used for procurement,
// shipment and arrival steps.
var approverRoles = []Role{RoleAdminLogistik, RoleAdminPurchase, RoleSuperAdmin}

// allRoles allows every authenticated actor (creation, cancellation;
// ownership checks stay with the caller).
var allRoles = []Role{RoleStaff, RoleLeader, RoleAdminLogistik, RoleAdminPurchase, RoleSuperAdmin}

// policy is the single (action -> allowed roles) capability table every
// transition attempt is evaluated against exactly once.
var policy = map[Action][]Role{
	ActionCreate:           allRoles,
	ActionReview:           approverRoles,
	ActionSubmitForCEO:     {RoleAdminPurchase, RoleSuperAdmin},
	ActionFinalApprove:     {RoleSuperAdmin},
	ActionStartProcurement: approverRoles,
	ActionConfirmShipment:  approverRoles,
	ActionConfirmArrival:   approverRoles,
	ActionRegisterItems:    {RoleAdminLogistik, RoleSuperAdmin},
	ActionCancel:           allRoles,
	ActionFollowUp:         {RoleStaff, RoleLeader},
	ActionPrioritize:       {RoleSuperAdmin},
	ActionRequestProgress:  {RoleStaff, RoleLeader},
	ActionAckProgress:      approverRoles,
}

// Allowed reports whether the role may attempt the action at all
func Allowed(role Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// reviewerRoles refines the review allow-list per stage: the logistics team
// reviews fresh requests, the purchase team reviews logistics-approved ones.
var reviewerRoles = map[Status][]Role{
	StatusPending:          {RoleAdminLogistik, RoleSuperAdmin},
	StatusLogisticApproved: {RoleAdminPurchase, RoleSuperAdmin},
}

// CanReviewAt reports whether the role owns the review of the given stage
func CanReviewAt(role Role, stage Status) bool {
	for _, r := range reviewerRoles[stage] {
		if r == role {
			return true
		}
	}
	return false
}

// StageOwner returns the approver role a follow-up should be routed to for
// the request's current stage.
func StageOwner(stage Status) Role {
	switch stage {
	case StatusPending:
		return RoleAdminLogistik
	case StatusLogisticApproved:
		return RoleAdminPurchase
	case StatusAwaitingCEOApproval:
		return RoleSuperAdmin
	default:
		return RoleAdminPurchase
	}
}
