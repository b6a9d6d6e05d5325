package version

// Stamped at build time via -ldflags "-X ...=<value>".
var (
	version   = "v0.4.2"
	commit    = "dev"
	buildDate = "unknown"
)

func Version() string   { return version }
func Commit() string    { return commit }
func BuildDate() string { return buildDate }
