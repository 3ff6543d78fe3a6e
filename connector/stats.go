package connector

// ConnectionStats represents database connection pool statistics.
type ConnectionStats struct {
	OpenConnections int `json:"open" yaml:"open"`
	InUse           int `json:"in_use" yaml:"in_use"`
	Idle            int `json:"idle" yaml:"idle"`
}
