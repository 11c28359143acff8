package panel

import "encoding/json"

// PowerState is the closed set of server power states reported by the
// panel. Anything the remote API sends outside this set parses to
// StateUnknown instead of failing the whole response.
type PowerState string

const (
	StateRunning    PowerState = "running"
	StateStopped    PowerState = "stopped"
	StateStarting   PowerState = "starting"
	StateStopping   PowerState = "stopping"
	StateRestarting PowerState = "restarting"
	StateUnknown    PowerState = "unknown"
)

// ParsePowerState maps a remote state string onto the closed enum.
func ParsePowerState(raw string) PowerState {
	switch PowerState(raw) {
	case StateRunning, StateStopped, StateStarting, StateStopping, StateRestarting:
		return PowerState(raw)
	}
	return StateUnknown
}

// ServerLimits are the resource limits provisioned for a server.
type ServerLimits struct {
	Memory int64 `json:"memory"`
	Swap   int64 `json:"swap"`
	Disk   int64 `json:"disk"`
	IO     int64 `json:"io"`
	CPU    int64 `json:"cpu"`
}

// FeatureLimits are the feature quotas provisioned for a server.
type FeatureLimits struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
}

// Allocation is the network endpoint assigned to a server.
type Allocation struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// Owner is the panel user a server belongs to, present when relations are
// included in the listing.
type Owner struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

// RemoteServer is a panel server as reported by the control plane. It is
// rehydrated fresh on every call; nothing is cached.
type RemoteServer struct {
	ID            string
	Name          string
	Identifier    string
	Description   string
	Limits        ServerLimits
	FeatureLimits FeatureLimits
	State         PowerState
	Allocation    Allocation
	Owner         Owner
	Nest          int
	Egg           int
	DockerImage   string
}

// RemoteUser is a panel user account.
type RemoteUser struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Language  string
	RootAdmin bool
	CreatedAt string
}

// ResourceSnapshot is a point-in-time read of a server's resource usage.
// There is no history behind it; statistics beyond this single sample are
// the caller's invention, not measurements.
type ResourceSnapshot struct {
	CPUPercent     float64
	MemoryBytes    int64
	DiskBytes      int64
	NetworkRxBytes int64
	NetworkTxBytes int64
}

// NewUser holds the fields required to create a panel user.
type NewUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// UserUpdate is a partial update of a panel user: nil fields are omitted
// from the PATCH body and left unchanged remotely.
type UserUpdate struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.FirstName == nil &&
		u.LastName == nil && u.Password == nil
}

// serverAttributes is the wire shape of a server object.
type serverAttributes struct {
	ID            json.Number   `json:"id"`
	Name          string        `json:"name"`
	Identifier    string        `json:"identifier"`
	Description   string        `json:"description"`
	Limits        ServerLimits  `json:"limits"`
	FeatureLimits FeatureLimits `json:"feature_limits"`
	State         string        `json:"state"`
	Allocation    Allocation    `json:"allocation"`
	User          Owner         `json:"user"`
	Nest          int           `json:"nest"`
	Egg           int           `json:"egg"`
	DockerImage   string        `json:"docker_image"`
}

func (a serverAttributes) toServer() RemoteServer {
	state := StateStopped
	if a.State != "" {
		state = ParsePowerState(a.State)
	}
	return RemoteServer{
		ID:            a.ID.String(),
		Name:          a.Name,
		Identifier:    a.Identifier,
		Description:   a.Description,
		Limits:        a.Limits,
		FeatureLimits: a.FeatureLimits,
		State:         state,
		Allocation:    a.Allocation,
		Owner:         a.User,
		Nest:          a.Nest,
		Egg:           a.Egg,
		DockerImage:   a.DockerImage,
	}
}

// userAttributes is the wire shape of a user object.
type userAttributes struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Language  string      `json:"language"`
	RootAdmin bool        `json:"root_admin"`
	CreatedAt string      `json:"created_at"`
}

func (a userAttributes) toUser() RemoteUser {
	return RemoteUser{
		ID:        a.ID.String(),
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Language:  a.Language,
		RootAdmin: a.RootAdmin,
		CreatedAt: a.CreatedAt,
	}
}

// resourceAttributes is the wire shape of a resource usage read.
type resourceAttributes struct {
	State struct {
		CPUAbsolute    float64 `json:"cpu_absolute"`
		MemoryBytes    int64   `json:"memory_bytes"`
		DiskBytes      int64   `json:"disk_bytes"`
		NetworkRxBytes int64   `json:"network_rx_bytes"`
		NetworkTxBytes int64   `json:"network_tx_bytes"`
	} `json:"state"`
}

func (a resourceAttributes) toSnapshot() ResourceSnapshot {
	return ResourceSnapshot{
		CPUPercent:     a.State.CPUAbsolute,
		MemoryBytes:    a.State.MemoryBytes,
		DiskBytes:      a.State.DiskBytes,
		NetworkRxBytes: a.State.NetworkRxBytes,
		NetworkTxBytes: a.State.NetworkTxBytes,
	}
}
