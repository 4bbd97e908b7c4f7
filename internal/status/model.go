package status

// Data contains all the information to display in status
type Data struct {
	// Header
	Version      string
	ConfigSource string
	LogLevel     string

	// Subject
	Subject     string
	Permissions []string
	GrantsFile  string

	// Engine
	Executor          string
	Timeout           string
	IgnoreUnusedFlags bool

	// Domains
	Bodies int
	Users  []string

	Commands []CommandInfo
}

// CommandInfo describes one leaf command as seen by the console subject
type CommandInfo struct {
	Path        string
	Usage       string
	Short       string
	Permissions []string
	Permitted   bool
}
