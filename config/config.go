package config

var Network string

var (
	AccountID     string
	NoScan        bool
	Limit         int
	ExtraListURLs []string

	JSONOutputFile string
)
