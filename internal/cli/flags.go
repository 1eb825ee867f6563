package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	LogLevel  string
	LogFormat string
	Provider  string
	Args      string

	// translate flags
	From        string
	To          string
	Domain      int
	BatchFile   string
	Concurrency int

	// serve flags
	Host string
	Port int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:    "warn",
		LogFormat:   "console",
		Provider:    "youdao",
		From:        "auto",
		Concurrency: 4,
		Host:        "127.0.0.1",
		Port:        8091,
	}
}
