package api

// Action identifies one of the operations the dispatcher multiplexes on the
// trailing path segment of the endpoint. The set is closed: anything not
// listed here resolves to ActionUnknown.
type Action int

const (
	ActionUnknown Action = iota
	ActionMeta
	ActionUsers
	ActionPluginStatus
	ActionContentCreate
	ActionContentGet
	ActionContentUpdate
)

// ParseAction maps an action path to its Action. Unrecognized or empty
// paths map to ActionUnknown.
func ParseAction(path string) Action {
	switch path {
	case "meta":
		return ActionMeta
	case "users":
		return ActionUsers
	case "plugin/status":
		return ActionPluginStatus
	case "content/create":
		return ActionContentCreate
	case "content/get":
		return ActionContentGet
	case "content/update":
		return ActionContentUpdate
	default:
		return ActionUnknown
	}
}

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionMeta:
		return "meta"
	case ActionUsers:
		return "users"
	case ActionPluginStatus:
		return "plugin/status"
	case ActionContentCreate:
		return "content/create"
	case ActionContentGet:
		return "content/get"
	case ActionContentUpdate:
		return "content/update"
	default:
		return "unknown"
	}
}
